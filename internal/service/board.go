package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
)

// Every new board starts with the same three columns.
var defaultColumnTitles = []string{"To Do", "In Progress", "Done"}

type BoardService struct {
	db  *gorm.DB
	hub realtime.Broadcaster
}

func NewBoardService(db *gorm.DB, hub realtime.Broadcaster) *BoardService {
	return &BoardService{db: db, hub: hub}
}

// Create makes the board, its owner membership and the default columns in
// one transaction.
func (s *BoardService) Create(name string, creator *model.User) (*model.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("40001:board name is required")
	}

	board := &model.Board{Name: name, CreatorID: creator.ID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		owner := &model.BoardMember{BoardID: board.ID, UserID: creator.ID, Role: model.RoleOwner}
		if err := tx.Create(owner).Error; err != nil {
			return err
		}
		for i, title := range defaultColumnTitles {
			col := &model.Column{BoardID: board.ID, Title: title, Position: positionAt(i)}
			if err := tx.Create(col).Error; err != nil {
				return err
			}
		}
		return recordActivity(tx, board.ID, creator, "board", &board.ID, "board_created",
			fmt.Sprintf("%s created board %q", creator.Name, name), nil)
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyUser(creator.ID, "board_created")
	return s.GetByID(board.ID)
}

func (s *BoardService) GetByID(id uint) (*model.Board, error) {
	var board model.Board
	if err := s.db.Preload("Creator").First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListForUser returns every board the user is a member of.
func (s *BoardService) ListForUser(userID uint) ([]model.Board, error) {
	var boards []model.Board
	err := s.db.Preload("Creator").
		Where("id IN (SELECT board_id FROM board_members WHERE user_id = ?)", userID).
		Order("updated_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// RoleOf exposes the membership check for callers outside the service layer
// (the event stream handler runs it before letting a connection join a board
// room).
func (s *BoardService) RoleOf(boardID, userID uint) (string, error) {
	return roleOf(s.db, boardID, userID)
}

// Detail loads a board with members, columns and cards, all in display
// order. Any role may read.
func (s *BoardService) Detail(boardID, userID uint) (*model.Board, string, error) {
	role, err := roleOf(s.db, boardID, userID)
	if err != nil {
		return nil, "", err
	}

	var board model.Board
	err = s.db.Preload("Creator").
		Preload("Members.User").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("columns.position ASC")
		}).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("cards.position ASC")
		}).
		First(&board, boardID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", fmt.Errorf("40402:board not found")
		}
		return nil, "", err
	}
	return &board, role, nil
}

// InviteMember adds a user to the board by email, or overwrites their role
// if they are already a member. Owner only. Re-inviting with the identical
// role is a no-op: success, but no audit entry and no broadcast.
func (s *BoardService) InviteMember(boardID uint, actor *model.User, email, role string) (*model.BoardMember, error) {
	if role != model.RoleMember && role != model.RoleViewer {
		return nil, fmt.Errorf("40001:role must be %q or %q", model.RoleMember, model.RoleViewer)
	}
	if err := requireOwner(s.db, boardID, actor.ID); err != nil {
		return nil, err
	}

	var invitee model.User
	if err := s.db.Where("email = ?", email).First(&invitee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40403:no account with that email")
		}
		return nil, err
	}

	var member model.BoardMember
	err := s.db.Where("board_id = ? AND user_id = ?", boardID, invitee.ID).First(&member).Error
	switch {
	case err == nil:
		if member.Role == role {
			member.User = &invitee
			return &member, nil
		}
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&member).Update("role", role).Error; err != nil {
				return err
			}
			return recordActivity(tx, boardID, actor, "member", &member.ID, "member_role_changed",
				fmt.Sprintf("%s changed %s's role to %s", actor.Name, invitee.Name, role),
				model.JSONMap{"user_id": invitee.ID, "role": role})
		})
		if txErr != nil {
			return nil, txErr
		}
		member.Role = role
	case err == gorm.ErrRecordNotFound:
		member = model.BoardMember{BoardID: boardID, UserID: invitee.ID, Role: role}
		txErr := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			return recordActivity(tx, boardID, actor, "member", &member.ID, "member_added",
				fmt.Sprintf("%s added %s as %s", actor.Name, invitee.Name, role),
				model.JSONMap{"user_id": invitee.ID, "role": role})
		})
		if txErr != nil {
			return nil, txErr
		}
	default:
		return nil, err
	}

	s.hub.NotifyBoard(boardID, "member_added")
	s.hub.NotifyUser(invitee.ID, "added_to_board")
	member.User = &invitee
	return &member, nil
}

// RemoveMember drops a membership. Owner only; owners cannot be removed.
func (s *BoardService) RemoveMember(boardID uint, actor *model.User, targetUserID uint) error {
	if err := requireOwner(s.db, boardID, actor.ID); err != nil {
		return err
	}

	var member model.BoardMember
	err := s.db.Preload("User").
		Where("board_id = ? AND user_id = ?", boardID, targetUserID).First(&member).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40401:that user is not a board member")
		}
		return err
	}
	if member.Role == model.RoleOwner {
		return fmt.Errorf("40003:board owners cannot be removed")
	}

	name := ""
	if member.User != nil {
		name = member.User.Name
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&member).Error; err != nil {
			return err
		}
		return recordActivity(tx, boardID, actor, "member", &member.ID, "member_removed",
			fmt.Sprintf("%s removed %s from the board", actor.Name, name),
			model.JSONMap{"user_id": targetUserID})
	})
	if err != nil {
		return err
	}

	s.hub.NotifyBoard(boardID, "member_removed")
	s.hub.NotifyUser(targetUserID, "removed_from_board")
	return nil
}
