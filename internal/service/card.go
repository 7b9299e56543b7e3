package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AdarshKhare29/Karban-board/internal/model"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
)

const dueDateLayout = "2006-01-02"

// lockForUpdate takes a row-level lock on the selected rows. SQLite has no
// FOR UPDATE syntax and serializes writers on its own, so the clause is only
// added for dialects that support it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type CardService struct {
	db  *gorm.DB
	hub realtime.Broadcaster
}

func NewCardService(db *gorm.DB, hub realtime.Broadcaster) *CardService {
	return &CardService{db: db, hub: hub}
}

// Create appends a card at the end of a column.
func (s *CardService) Create(columnID uint, actor *model.User, title, description string) (*model.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("40001:card title is required")
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

	card := &model.Card{BoardID: column.BoardID, ColumnID: columnID, Title: title, Description: description}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		pos, err := nextCardPosition(tx, columnID)
		if err != nil {
			return err
		}
		card.Position = pos
		if err := tx.Create(card).Error; err != nil {
			return err
		}
		return recordActivity(tx, column.BoardID, actor, "card", &card.ID, "card_created",
			fmt.Sprintf("%s added card %q to %q", actor.Name, title, column.Title), nil)
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(column.BoardID, "card_created")
	return card, nil
}

func (s *CardService) Get(cardID, userID uint) (*model.Card, error) {
	var card model.Card
	if err := s.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:card not found")
		}
		return nil, err
	}
	if _, err := roleOf(s.db, card.BoardID, userID); err != nil {
		return nil, err
	}
	return &card, nil
}

// Update applies a partial card edit. patch holds the raw JSON per field so
// an explicit null (clear assignee / due date) is distinguishable from an
// omitted key (leave unchanged). A patch that changes nothing is a no-op:
// the current card comes back with success, and no audit entry or broadcast
// is produced.
func (s *CardService) Update(cardID uint, actor *model.User, patch map[string]json.RawMessage) (*model.Card, error) {
	var card model.Card
	if err := s.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:card not found")
		}
		return nil, err
	}
	if _, err := requireWriter(s.db, card.BoardID, actor.ID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0, len(patch))

	for key, raw := range patch {
		switch key {
		case "title":
			var title string
			if err := json.Unmarshal(raw, &title); err != nil {
				return nil, fmt.Errorf("40001:title must be a string")
			}
			title = strings.TrimSpace(title)
			if title == "" {
				return nil, fmt.Errorf("40001:card title is required")
			}
			if title != card.Title {
				updates["title"] = title
				changed = append(changed, "title")
			}
		case "description":
			var description string
			if err := json.Unmarshal(raw, &description); err != nil {
				return nil, fmt.Errorf("40001:description must be a string")
			}
			if description != card.Description {
				updates["description"] = description
				changed = append(changed, "description")
			}
		case "assignee":
			if isJSONNull(raw) {
				if card.Assignee != nil {
					updates["assignee"] = nil
					changed = append(changed, "assignee")
				}
				continue
			}
			var who string
			if err := json.Unmarshal(raw, &who); err != nil {
				return nil, fmt.Errorf("40001:assignee must be a string or null")
			}
			name, err := s.resolveAssignee(card.BoardID, who)
			if err != nil {
				return nil, err
			}
			if card.Assignee == nil || *card.Assignee != name {
				updates["assignee"] = name
				changed = append(changed, "assignee")
			}
		case "due_date":
			if isJSONNull(raw) {
				if card.DueDate != nil {
					updates["due_date"] = nil
					changed = append(changed, "due_date")
				}
				continue
			}
			var due string
			if err := json.Unmarshal(raw, &due); err != nil {
				return nil, fmt.Errorf("40001:due_date must be a string or null")
			}
			if err := validateDueDate(due); err != nil {
				return nil, err
			}
			if card.DueDate == nil || *card.DueDate != due {
				updates["due_date"] = due
				changed = append(changed, "due_date")
			}
		default:
			return nil, fmt.Errorf("40001:unknown field %q", key)
		}
	}

	if len(updates) == 0 {
		return &card, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&card).Updates(updates).Error; err != nil {
			return err
		}
		return recordActivity(tx, card.BoardID, actor, "card", &card.ID, "card_updated",
			fmt.Sprintf("%s updated card %q", actor.Name, card.Title),
			model.JSONMap{"fields": changed})
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(card.BoardID, "card_updated")
	if err := s.db.First(&card, cardID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// Move places a card at toIndex in toColumnID, renumbering every affected
// list. The moved card's row is locked for the whole transaction so
// concurrent moves of the same card serialize. A move always records
// activity and broadcasts, even when the computed positions come out
// identical: the user's intent is a move, not an edit.
func (s *CardService) Move(cardID uint, actor *model.User, toColumnID uint, toIndex int) (*model.Card, error) {
	var card model.Card
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&card, cardID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("40401:card not found")
			}
			return err
		}
		if _, err := requireWriter(tx, card.BoardID, actor.ID); err != nil {
			return err
		}

		var target model.Column
		if err := tx.First(&target, toColumnID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("40402:column not found")
			}
			return err
		}
		if target.BoardID != card.BoardID {
			return fmt.Errorf("40003:target column is not on this board")
		}

		fromColumnID := card.ColumnID
		if fromColumnID == toColumnID {
			ids, err := columnCardIDs(tx, fromColumnID)
			if err != nil {
				return err
			}
			if err := renumberCards(tx, fromColumnID, insertAt(ids, card.ID, toIndex)); err != nil {
				return err
			}
		} else {
			destIDs, err := columnCardIDs(tx, toColumnID)
			if err != nil {
				return err
			}
			srcIDs, err := columnCardIDs(tx, fromColumnID)
			if err != nil {
				return err
			}
			if err := renumberCards(tx, toColumnID, insertAt(destIDs, card.ID, toIndex)); err != nil {
				return err
			}
			remaining := srcIDs[:0]
			for _, id := range srcIDs {
				if id != card.ID {
					remaining = append(remaining, id)
				}
			}
			if err := renumberCards(tx, fromColumnID, remaining); err != nil {
				return err
			}
		}

		return recordActivity(tx, card.BoardID, actor, "card", &card.ID, "card_moved",
			fmt.Sprintf("%s moved card %q to %q", actor.Name, card.Title, target.Title),
			model.JSONMap{"from_column_id": fromColumnID, "to_column_id": toColumnID, "to_index": toIndex})
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(card.BoardID, "card_moved")
	if err := s.db.First(&card, cardID).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CardService) Delete(cardID uint, actor *model.User) error {
	var card model.Card
	if err := s.db.First(&card, cardID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40401:card not found")
		}
		return err
	}
	if _, err := requireWriter(s.db, card.BoardID, actor.ID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", cardID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&card).Error; err != nil {
			return err
		}
		return recordActivity(tx, card.BoardID, actor, "card", &card.ID, "card_deleted",
			fmt.Sprintf("%s deleted card %q", actor.Name, card.Title), nil)
	})
	if err != nil {
		return err
	}

	s.hub.NotifyBoard(card.BoardID, "card_deleted")
	return nil
}

// resolveAssignee matches q against a current board member's email or
// display name and returns the display name to snapshot. The snapshot is not
// kept in sync with later renames or membership changes.
func (s *CardService) resolveAssignee(boardID uint, q string) (string, error) {
	var user model.User
	err := s.db.Model(&model.User{}).
		Joins("JOIN board_members ON board_members.user_id = users.id").
		Where("board_members.board_id = ? AND (users.email = ? OR users.name = ?)", boardID, q, q).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", fmt.Errorf("40004:assignee is not a member of this board")
		}
		return "", err
	}
	return user.Name, nil
}

// validateDueDate accepts only real calendar dates in YYYY-MM-DD form. The
// value is stored and returned verbatim; nothing in the pipeline applies a
// timezone, which would silently shift the date for users west of UTC.
func validateDueDate(s string) error {
	t, err := time.Parse(dueDateLayout, s)
	if err != nil || t.Format(dueDateLayout) != s {
		return fmt.Errorf("40001:due date must be a valid YYYY-MM-DD date")
	}
	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
