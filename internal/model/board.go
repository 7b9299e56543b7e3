package model

import "time"

type Board struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	CreatorID uint      `gorm:"not null;index:idx_creator_id" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Creator *User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members []BoardMember `gorm:"foreignKey:BoardID" json:"members,omitempty"`
	Columns []Column      `gorm:"foreignKey:BoardID" json:"columns,omitempty"`
}

func (Board) TableName() string { return "boards" }
