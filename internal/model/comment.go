package model

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardID   uint      `gorm:"not null;index:idx_card_comments_board_id" json:"board_id"`
	CardID    uint      `gorm:"not null;index:idx_card_id" json:"card_id"`
	AuthorID  *uint     `gorm:"index:idx_author_id" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string { return "card_comments" }
