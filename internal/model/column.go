package model

import "time"

type Column struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardID   uint      `gorm:"not null;index:idx_columns_board_id" json:"board_id"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Cards []Card `gorm:"foreignKey:ColumnID" json:"cards,omitempty"`
}

func (Column) TableName() string { return "columns" }
