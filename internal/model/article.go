package model

import "time"

// Article is a published news post.
type Article struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Subtitle  string     `json:"subtitle" gorm:"size:255"`
	Content   string     `json:"content" gorm:"type:text"`
	Image     string     `json:"image,omitempty" gorm:"size:255"` // relative path under the static root
	AuthorID  *uint      `json:"author_id,omitempty" gorm:"index"`
	Category  string     `json:"category,omitempty" gorm:"size:100;index"`
	Tags      string     `json:"tags,omitempty" gorm:"size:500"` // comma-delimited
	Slug      string     `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Views     uint       `json:"views" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`

	// AuthorName is filled by joins with users and never written.
	AuthorName string `json:"author_name,omitempty" gorm:"->;-:migration"`
}

// TableName keeps the table name used by the legacy schema.
func (Article) TableName() string {
	return "posts"
}

// TagList splits the comma-delimited tags into trimmed, non-empty values.
func (a *Article) TagList() []string {
	return SplitTags(a.Tags)
}

// ArticlePatch describes a partial update of an article.
type ArticlePatch struct {
	Title    Optional[string]
	Subtitle Optional[string]
	Content  Optional[string]
	Category Optional[string]
	Tags     Optional[string]
	Image    Optional[string]
}

// DashboardStats holds the aggregate numbers shown on the admin dashboard.
type DashboardStats struct {
	TotalPosts   int64 `json:"total_posts"`
	TotalViews   int64 `json:"total_views"`
	TotalAuthors int64 `json:"total_authors"`
}
