package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email"`
	Password  string    `json:"-" gorm:"not null"`
	IsStaff   bool      `json:"isStaff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "auth_user" }

// Session is a server-stored login session referenced by an opaque cookie.
type Session struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "auth_session" }

func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
