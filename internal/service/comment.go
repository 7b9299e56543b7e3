package service

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
)

type CommentService struct {
	db  *gorm.DB
	hub realtime.Broadcaster
}

func NewCommentService(db *gorm.DB, hub realtime.Broadcaster) *CommentService {
	return &CommentService{db: db, hub: hub}
}

func (s *CommentService) Add(cardID uint, actor *model.User, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("40001:comment body is required")
	}

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

	comment := &model.Comment{BoardID: card.BoardID, CardID: cardID, AuthorID: &actor.ID, Body: body}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recordActivity(tx, card.BoardID, actor, "comment", &comment.ID, "comment_added",
			fmt.Sprintf("%s commented on %q", actor.Name, card.Title), nil)
	})
	if err != nil {
		return nil, err
	}

	s.hub.NotifyBoard(card.BoardID, "comment_added")
	comment.Author = actor
	return comment, nil
}

func (s *CommentService) List(cardID, userID uint) ([]model.Comment, error) {
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

	var comments []model.Comment
	err := s.db.Preload("Author").
		Where("card_id = ?", cardID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. Permitted to the comment's author or any board
// owner; the caller must be a board participant either way. This check is
// independent of the write-role gate, so a viewer may still delete their own
// comments from before a demotion.
func (s *CommentService) Delete(commentID uint, actor *model.User) error {
	var comment model.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("40401:comment not found")
		}
		return err
	}

	role, err := roleOf(s.db, comment.BoardID, actor.ID)
	if err != nil {
		return err
	}
	isAuthor := comment.AuthorID != nil && *comment.AuthorID == actor.ID
	if !isAuthor && role != model.RoleOwner {
		logrus.WithFields(logrus.Fields{"board_id": comment.BoardID, "user_id": actor.ID, "comment_id": commentID}).
			Info("authorization denied: not comment author or board owner")
		return errRoleForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return recordActivity(tx, comment.BoardID, actor, "comment", &comment.ID, "comment_deleted",
			fmt.Sprintf("%s deleted a comment", actor.Name), nil)
	})
	if err != nil {
		return err
	}

	s.hub.NotifyBoard(comment.BoardID, "comment_deleted")
	return nil
}
