package model

import "time"

// User represents a staff account that can sign in to the admin area.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	DisplayName  string    `json:"display_name" gorm:"size:255"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:'writer'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName keeps the table name used by the legacy schema.
func (User) TableName() string {
	return "users"
}

// Principal returns the session summary for the user.
func (u *User) Principal() Principal {
	return Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        ParseRole(string(u.Role)),
		DisplayName: u.DisplayName,
	}
}

// UserPatch describes a partial update of a user. PasswordHash is already hashed.
type UserPatch struct {
	Username     Optional[string]
	DisplayName  Optional[string]
	Role         Optional[Role]
	PasswordHash Optional[string]
}
