package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
)

type ColumnService struct {
	db  *gorm.DB
	hub realtime.Broadcaster
}

func NewColumnService(db *gorm.DB, hub realtime.Broadcaster) *ColumnService {
	return &ColumnService{db: db, hub: hub}
}

// Create appends a column at the end of the board.
func (s *ColumnService) Create(boardID uint, actor *model.User, title string) (*model.Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("40001:column title is required")
	}
	if _, err := requireWriter(s.db, boardID, actor.ID); err != nil {
		return nil, err
	}

	column := &model.Column{BoardID: boardID, Title: title}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pos, err := nextColumnPosition(tx, boardID)
		if err != nil {
			return err
		}
		column.Position = pos
		if err := tx.Create(column).Error; err != nil {
			return err
		}
		return recordActivity(tx, boardID, actor, "column", &column.ID, "column_created",
			fmt.Sprintf("%s added column %q", actor.Name, title), nil)
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(boardID, "column_created")
	return column, nil
}

// Rename updates a column title. Renaming to the current title is a no-op:
// the column is returned as-is with no audit entry and no broadcast.
func (s *ColumnService) Rename(columnID uint, actor *model.User, title string) (*model.Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("40001:column title is required")
	}

	var column model.Column
	if err := s.db.First(&column, columnID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40402:column not found")
		}
		return nil, err
	}
	if _, err := requireWriter(s.db, column.BoardID, actor.ID); err != nil {
		return nil, err
	}

	if column.Title == title {
		return &column, nil
	}

	old := column.Title
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&column).Update("title", title).Error; err != nil {
			return err
		}
		return recordActivity(tx, column.BoardID, actor, "column", &column.ID, "column_renamed",
			fmt.Sprintf("%s renamed column %q to %q", actor.Name, old, title),
			model.JSONMap{"from": old, "to": title})
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(column.BoardID, "column_renamed")
	column.Title = title
	return &column, nil
}

// Move reorders a column within its board. Like card moves, a column move is
// always treated as a change even when the resulting order matches.
func (s *ColumnService) Move(columnID uint, actor *model.User, toIndex int) (*model.Column, error) {
	var column model.Column
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&column, columnID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("40402:column not found")
			}
			return err
		}
		if _, err := requireWriter(tx, column.BoardID, actor.ID); err != nil {
			return err
		}

		ids, err := boardColumnIDs(tx, column.BoardID)
		if err != nil {
			return err
		}
		if err := renumberColumns(tx, insertAt(ids, column.ID, toIndex)); err != nil {
			return err
		}
		return recordActivity(tx, column.BoardID, actor, "column", &column.ID, "column_moved",
			fmt.Sprintf("%s moved column %q", actor.Name, column.Title),
			model.JSONMap{"to_index": toIndex})
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(column.BoardID, "column_moved")
	if err := s.db.First(&column, columnID).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// Delete removes an empty column. Columns still holding cards are refused.
func (s *ColumnService) Delete(columnID uint, actor *model.User) error {
	var column model.Column
	if err := s.db.First(&column, columnID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40402:column not found")
		}
		return err
	}
	if _, err := requireWriter(s.db, column.BoardID, actor.ID); err != nil {
		return err
	}

	var cardCount int64
	s.db.Model(&model.Card{}).Where("column_id = ?", columnID).Count(&cardCount)
	if cardCount > 0 {
		return fmt.Errorf("40002:column still has cards")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&column).Error; err != nil {
			return err
		}
		return recordActivity(tx, column.BoardID, actor, "column", &column.ID, "column_deleted",
			fmt.Sprintf("%s deleted column %q", actor.Name, column.Title), nil)
	})
	if err != nil {
		return err
	}

	s.hub.NotifyBoard(column.BoardID, "column_deleted")
	return nil
}
