package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperr "newsroom/internal/errors"
	"newsroom/internal/model"
	"newsroom/internal/query"
)

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id uint) (*model.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// GetBySlug returns the article and counts one view for it.
	GetBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, q query.ListQuery) ([]model.Article, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	ListRelated(ctx context.Context, category string, excludeID uint, limit int) ([]model.Article, error)
	ListTrending(ctx context.Context, limit int) ([]model.Article, error)
	ListRecent(ctx context.Context, limit int) ([]model.Article, error)
	ListWithAuthors(ctx context.Context) ([]model.Article, error)
	Stats(ctx context.Context) (model.DashboardStats, error)
	Update(ctx context.Context, id uint, patch model.ArticlePatch) error
	Delete(ctx context.Context, id uint) error
}

type articleRepository struct {
	db      *gorm.DB
	timeout timeout
}

// NewArticleRepository creates a new article repository. Each call is bounded by callTimeout.
func NewArticleRepository(db *gorm.DB, callTimeout time.Duration) ArticleRepository {
	return &articleRepository{db: db, timeout: timeout(callTimeout)}
}

// Create inserts a new article. A slug collision returns ErrSlugTaken.
func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrSlugTaken
		}
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// FindByID finds an article by ID together with its author's username.
func (r *articleRepository) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var article model.Article
	err := r.withAuthors(r.db.WithContext(ctx)).
		Where("posts.id = ?", id).
		Take(&article).Error
	if err != nil {
		return nil, notFound(err, apperr.ErrArticleNotFound, "find article")
	}
	return &article, nil
}

// SlugExists reports whether an article already uses slug.
func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}

// GetBySlug loads an article and increments its view counter in one transaction.
// The returned article already includes the new view.
func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var article model.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", slug).Take(&article).Error; err != nil {
			return err
		}
		return tx.Model(&model.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	})
	if err != nil {
		return nil, notFound(err, apperr.ErrArticleNotFound, "get article by slug")
	}
	article.Views++
	return &article, nil
}

// List runs a listing built by the query package and returns one page plus the total.
func (r *articleRepository) List(ctx context.Context, q query.ListQuery) ([]model.Article, int64, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var total int64
	if err := r.db.WithContext(ctx).Raw(q.Count.SQL, q.Count.Args...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	var articles []model.Article
	if err := r.db.WithContext(ctx).Raw(q.Data.SQL, q.Data.Args...).Scan(&articles).Error; err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return articles, total, nil
}

// Categories returns the distinct categories in use.
func (r *articleRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	stmt := query.CategoriesStatement()
	var categories []string
	if err := r.db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Tags returns the flattened, de-duplicated tag set.
func (r *articleRepository) Tags(ctx context.Context) ([]string, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	stmt := query.TagsStatement()
	var rows []string
	if err := r.db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return query.FlattenTags(rows), nil
}

// ListRelated lists the newest articles in category, excluding excludeID.
func (r *articleRepository) ListRelated(ctx context.Context, category string, excludeID uint, limit int) ([]model.Article, error) {
	if category == "" || limit <= 0 {
		return nil, nil
	}

	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var articles []model.Article
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ?", category, excludeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list related articles: %w", err)
	}
	return articles, nil
}

// ListTrending lists the most viewed articles.
func (r *articleRepository) ListTrending(ctx context.Context, limit int) ([]model.Article, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var articles []model.Article
	err := r.withAuthors(r.db.WithContext(ctx)).
		Order("posts.views DESC, posts.created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list trending articles: %w", err)
	}
	return articles, nil
}

// ListRecent lists the newest articles.
func (r *articleRepository) ListRecent(ctx context.Context, limit int) ([]model.Article, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var articles []model.Article
	err := r.withAuthors(r.db.WithContext(ctx)).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	return articles, nil
}

// ListWithAuthors lists every article, newest first, for the admin table.
func (r *articleRepository) ListWithAuthors(ctx context.Context) ([]model.Article, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var articles []model.Article
	err := r.withAuthors(r.db.WithContext(ctx)).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles with authors: %w", err)
	}
	return articles, nil
}

// Stats returns totals for the dashboard.
func (r *articleRepository) Stats(ctx context.Context) (model.DashboardStats, error) {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	var stats model.DashboardStats
	row := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("COUNT(*), COALESCE(SUM(views), 0), COUNT(DISTINCT author_id)").
		Row()
	if err := row.Scan(&stats.TotalPosts, &stats.TotalViews, &stats.TotalAuthors); err != nil {
		return model.DashboardStats{}, fmt.Errorf("article stats: %w", err)
	}
	return stats, nil
}

// Update writes the fields set in patch and stamps updated_at.
func (r *articleRepository) Update(ctx context.Context, id uint, patch model.ArticlePatch) error {
	updates := map[string]interface{}{}
	for column, field := range map[string]model.Optional[string]{
		"title":    patch.Title,
		"subtitle": patch.Subtitle,
		"content":  patch.Content,
		"category": patch.Category,
		"tags":     patch.Tags,
		"image":    patch.Image,
	} {
		if v, ok := field.Get(); ok {
			updates[column] = v
		}
	}
	updates["updated_at"] = time.Now()

	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Article{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("check article %d: %w", id, err)
		}
		if n == 0 {
			return apperr.ErrArticleNotFound
		}
		if err := tx.Model(&model.Article{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update article %d: %w", id, err)
		}
		return nil
	})
}

// Delete removes an article.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	ctx, cancel := r.timeout.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&model.Article{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete article %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrArticleNotFound
	}
	return nil
}

// withAuthors selects posts joined with the author's username.
func (r *articleRepository) withAuthors(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Article{}).
		Select("posts.*, users.username AS author_name").
		Joins("LEFT JOIN users ON users.id = posts.author_id")
}
