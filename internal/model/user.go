package model

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex:idx_email;not null" json:"email"`
	Name         string    `gorm:"type:varchar(64);not null" json:"name"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserBrief struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{ID: u.ID, Name: u.Name, Email: u.Email}
}
