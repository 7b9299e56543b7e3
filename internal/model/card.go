package model

import "time"

// Card belongs to one column on one board.
//
// Assignee is a display-name snapshot resolved against board membership at
// write time; it is not a foreign key and is not updated if the member later
// renames or leaves. DueDate is a plain "YYYY-MM-DD" calendar date with no
// time-of-day and no timezone conversion anywhere in the pipeline.
type Card struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BoardID     uint      `gorm:"not null;index:idx_cards_board_id" json:"board_id"`
	ColumnID    uint      `gorm:"not null;index:idx_column_id" json:"column_id"`
	Title       string    `gorm:"type:varchar(256);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Assignee    *string   `gorm:"type:varchar(64)" json:"assignee"`
	DueDate     *string   `gorm:"type:varchar(10)" json:"due_date"`
	Position    int       `gorm:"not null" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Card) TableName() string { return "cards" }
