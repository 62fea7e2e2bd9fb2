package user

import (
	"time"
)

// User represents a registered account. Emails are stored lowercase and are
// unique across all users. PasswordHash is never serialized in any API
// response.
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Name         string    `gorm:"not null;type:text" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	AvatarURL    string    `gorm:"type:text" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Claims is the identity carried by a verified session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
