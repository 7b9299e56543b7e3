package service

import (
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

// positionGap is the spacing between consecutive ordinals. Positions are
// sparse so a single insert has room between neighbors, but every move
// renumbers the full affected list anyway: correctness and strict uniqueness
// over micro-optimization.
const positionGap = 1000

// positionAt is the ordinal assigned to list slot i after a renumber.
func positionAt(i int) int { return (i + 1) * positionGap }

// insertAt returns the sibling order with moved placed at index. moved is
// removed from ids first if present; index is clamped to [0, len] so an
// out-of-range target appends and a negative one prepends.
func insertAt(ids []uint, moved uint, index int) []uint {
	out := make([]uint, 0, len(ids)+1)
	for _, id := range ids {
		if id != moved {
			out = append(out, id)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(out) {
		index = len(out)
	}
	out = append(out, 0)
	copy(out[index+1:], out[index:])
	out[index] = moved
	return out
}

// nextColumnPosition returns the append ordinal for a new column on a board.
func nextColumnPosition(tx *gorm.DB, boardID uint) (int, error) {
	var maxPos int
	err := tx.Model(&model.Column{}).Where("board_id = ?", boardID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error
	if err != nil {
		return 0, err
	}
	return maxPos + positionGap, nil
}

// nextCardPosition returns the append ordinal for a new card in a column.
func nextCardPosition(tx *gorm.DB, columnID uint) (int, error) {
	var maxPos int
	err := tx.Model(&model.Card{}).Where("column_id = ?", columnID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error
	if err != nil {
		return 0, err
	}
	return maxPos + positionGap, nil
}

// columnCardIDs returns the card ids of a column in current display order.
func columnCardIDs(tx *gorm.DB, columnID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.Card{}).Where("column_id = ?", columnID).
		Order("position ASC").Pluck("id", &ids).Error
	return ids, err
}

// boardColumnIDs returns the column ids of a board in current display order.
func boardColumnIDs(tx *gorm.DB, boardID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.Column{}).Where("board_id = ?", boardID).
		Order("position ASC").Pluck("id", &ids).Error
	return ids, err
}

// renumberCards rewrites position (and column ownership) for every card in
// the given order. Moving a card across columns reuses this for both lists.
func renumberCards(tx *gorm.DB, columnID uint, orderedIDs []uint) error {
	for i, id := range orderedIDs {
		err := tx.Model(&model.Card{}).Where("id = ?", id).Updates(map[string]interface{}{
			"column_id": columnID,
			"position":  positionAt(i),
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// renumberColumns rewrites position for every column in the given order.
func renumberColumns(tx *gorm.DB, orderedIDs []uint) error {
	for i, id := range orderedIDs {
		err := tx.Model(&model.Column{}).Where("id = ?", id).
			Update("position", positionAt(i)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
