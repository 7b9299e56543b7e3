package service

import (
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

const defaultActivityPageSize = 20

// recordActivity appends an audit entry inside the transaction of the
// mutation it describes. A failure here aborts that transaction, so the
// audit trail and the mutation can never observably diverge.
func recordActivity(tx *gorm.DB, boardID uint, actor *model.User, entityType string, entityID *uint, action, message string, metadata model.JSONMap) error {
	entry := &model.Activity{
		BoardID:    boardID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Message:    message,
		Metadata:   metadata,
	}
	if actor != nil {
		entry.ActorID = &actor.ID
	}
	return tx.Create(entry).Error
}

type ActivityService struct {
	db          *gorm.DB
	maxPageSize int
}

func NewActivityService(db *gorm.DB, maxPageSize int) *ActivityService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &ActivityService{db: db, maxPageSize: maxPageSize}
}

// List returns a board's activity, newest first, ties broken by insertion
// id. Page size is clamped to the configured maximum to bound the scan.
func (s *ActivityService) List(boardID, userID uint, page, pageSize int) ([]model.Activity, int64, error) {
	if _, err := roleOf(s.db, boardID, userID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultActivityPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}

	query := s.db.Model(&model.Activity{}).Where("board_id = ?", boardID)

	var total int64
	query.Count(&total)

	var entries []model.Activity
	err := query.Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
