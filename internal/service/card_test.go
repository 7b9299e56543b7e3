package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

func patch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var p map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func TestUpdateCardFields(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "Ship it", "")
	require.NoError(t, err)

	t.Run("set and clear assignee", func(t *testing.T) {
		got, err := f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":"member@example.com"}`))
		require.NoError(t, err)
		require.NotNil(t, got.Assignee)
		assert.Equal(t, "Max Member", *got.Assignee, "assignee stores the resolved display name")

		got, err = f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":null}`))
		require.NoError(t, err)
		assert.Nil(t, got.Assignee)
	})

	t.Run("assignee resolves by display name too", func(t *testing.T) {
		got, err := f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":"Vera Viewer"}`))
		require.NoError(t, err)
		require.NotNil(t, got.Assignee)
		assert.Equal(t, "Vera Viewer", *got.Assignee)
	})

	t.Run("assignee must be a board member", func(t *testing.T) {
		_, err := f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":"outsider@example.com"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40004:")
	})

	t.Run("due date round-trips without drift", func(t *testing.T) {
		got, err := f.cards.Update(card.ID, f.owner, patch(t, `{"due_date":"2026-03-10"}`))
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)
		assert.Equal(t, "2026-03-10", *got.DueDate)

		refetched, err := f.cards.Get(card.ID, f.viewer.ID)
		require.NoError(t, err)
		require.NotNil(t, refetched.DueDate)
		assert.Equal(t, "2026-03-10", *refetched.DueDate)
	})

	t.Run("impossible calendar date rejected", func(t *testing.T) {
		_, err := f.cards.Update(card.ID, f.owner, patch(t, `{"due_date":"2026-02-30"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40001:")
	})

	t.Run("unpadded date rejected", func(t *testing.T) {
		_, err := f.cards.Update(card.ID, f.owner, patch(t, `{"due_date":"2026-3-1"}`))
		require.Error(t, err)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := f.cards.Update(card.ID, f.owner, patch(t, `{"position":12}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40001:")
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := f.cards.Update(card.ID, f.owner, patch(t, `{"title":"  "}`))
		require.Error(t, err)
	})
}

// A payload identical to current state must produce no write, no activity
// entry and no broadcast, for each field alone and all combined.
func TestUpdateCardNoopSuppression(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "Ship it", "soon")
	require.NoError(t, err)

	_, err = f.cards.Update(card.ID, f.owner,
		patch(t, `{"assignee":"member@example.com","due_date":"2026-03-10"}`))
	require.NoError(t, err)

	baselineActivity := f.activityCount(t)
	baselineEvents := len(f.bc.boardEvents())

	noops := []string{
		`{"title":"Ship it"}`,
		`{"description":"soon"}`,
		`{"assignee":"member@example.com"}`,
		`{"assignee":"Max Member"}`,
		`{"due_date":"2026-03-10"}`,
		`{"title":"Ship it","description":"soon","assignee":"Max Member","due_date":"2026-03-10"}`,
		`{}`,
	}
	for _, body := range noops {
		got, err := f.cards.Update(card.ID, f.owner, patch(t, body))
		require.NoError(t, err, "no-op must still succeed: %s", body)
		assert.Equal(t, "Ship it", got.Title)
		assert.Equal(t, baselineActivity, f.activityCount(t), "no-op must not record activity: %s", body)
		assert.Len(t, f.bc.boardEvents(), baselineEvents, "no-op must not broadcast: %s", body)
	}

	// Clearing an already-absent field is also a no-op.
	_, err = f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":null}`))
	require.NoError(t, err)
	_, err = f.cards.Update(card.ID, f.owner, patch(t, `{"assignee":null}`))
	require.NoError(t, err)
	assert.Equal(t, baselineActivity+1, f.activityCount(t))
}

func TestMoveCardAcrossColumns(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	colA, colB := cols[0], cols[1]

	mk := func(colID uint, title string) uint {
		card, err := f.cards.Create(colID, f.member, title, "")
		require.NoError(t, err)
		return card.ID
	}
	c := mk(colA.ID, "C")
	x := mk(colA.ID, "X")
	y := mk(colA.ID, "Y")
	m := mk(colB.ID, "M")
	n := mk(colB.ID, "N")

	moved, err := f.cards.Move(c, f.member, colB.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, colB.ID, moved.ColumnID)

	var bIDs, aIDs []uint
	for _, card := range f.columnCards(t, colB.ID) {
		bIDs = append(bIDs, card.ID)
	}
	for _, card := range f.columnCards(t, colA.ID) {
		aIDs = append(aIDs, card.ID)
	}
	assert.Equal(t, []uint{m, c, n}, bIDs)
	assert.Equal(t, []uint{x, y}, aIDs)

	for _, col := range []uint{colA.ID, colB.ID} {
		last := 0
		for _, card := range f.columnCards(t, col) {
			assert.Greater(t, card.Position, last)
			last = card.Position
		}
	}
}

// A move is a user-intentional action: it records activity and broadcasts
// even when the resulting positions are numerically unchanged.
func TestMoveCardNeverNoop(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "solo", "")
	require.NoError(t, err)

	before := f.activityCount(t)
	beforeEvents := len(f.bc.boardEvents())

	_, err = f.cards.Move(card.ID, f.member, cols[0].ID, 0)
	require.NoError(t, err)

	assert.Equal(t, before+1, f.activityCount(t))
	assert.Len(t, f.bc.boardEvents(), beforeEvents+1)
	assert.Contains(t, f.bc.boardEvents()[beforeEvents], "card_moved")
}

func TestMoveCardReferentialChecks(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "stuck", "")
	require.NoError(t, err)

	t.Run("unknown card", func(t *testing.T) {
		_, err := f.cards.Move(99999, f.member, cols[1].ID, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40401:")
	})

	t.Run("unknown target column", func(t *testing.T) {
		_, err := f.cards.Move(card.ID, f.member, 99999, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40402:")
	})

	t.Run("target column on another board", func(t *testing.T) {
		other, err := f.boards.Create("Other", f.owner)
		require.NoError(t, err)
		var otherCols []uint
		require.NoError(t, f.db.Model(&model.Column{}).
			Where("board_id = ?", other.ID).Order("position ASC").Pluck("id", &otherCols).Error)
		require.NotEmpty(t, otherCols)

		_, err = f.cards.Move(card.ID, f.member, otherCols[0], 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40003:")
	})
}

// Every write endpoint rejects a viewer; reads remain open to them.
func TestViewerRoleGating(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "target", "")
	require.NoError(t, err)

	writes := map[string]func() error{
		"create column": func() error {
			_, err := f.columns.Create(f.board.ID, f.viewer, "Nope")
			return err
		},
		"create card": func() error {
			_, err := f.cards.Create(cols[0].ID, f.viewer, "Nope", "")
			return err
		},
		"update card": func() error {
			_, err := f.cards.Update(card.ID, f.viewer, patch(t, `{"title":"hijack"}`))
			return err
		},
		"delete card": func() error {
			return f.cards.Delete(card.ID, f.viewer)
		},
		"move card": func() error {
			_, err := f.cards.Move(card.ID, f.viewer, cols[1].ID, 0)
			return err
		},
		"add comment": func() error {
			_, err := f.comments.Add(card.ID, f.viewer, "hi")
			return err
		},
	}
	for name, write := range writes {
		err := write()
		require.Error(t, err, "%s must be denied for viewers", name)
		assert.Contains(t, err.Error(), "40302:", name)
	}

	// Reads stay open.
	_, err = f.cards.Get(card.ID, f.viewer.ID)
	assert.NoError(t, err)
	_, _, err = f.boards.Detail(f.board.ID, f.viewer.ID)
	assert.NoError(t, err)
	_, _, err = f.activities.List(f.board.ID, f.viewer.ID, 1, 10)
	assert.NoError(t, err)
	_, err = f.comments.List(card.ID, f.viewer.ID)
	assert.NoError(t, err)
}

func TestDeleteCardRemovesComments(t *testing.T) {
	f := newFixture(t)
	cols := f.boardColumns(t)
	card, err := f.cards.Create(cols[0].ID, f.member, "doomed", "")
	require.NoError(t, err)
	_, err = f.comments.Add(card.ID, f.member, "goodbye")
	require.NoError(t, err)

	require.NoError(t, f.cards.Delete(card.ID, f.member))

	var count int64
	f.db.Table("card_comments").Where("card_id = ?", card.ID).Count(&count)
	assert.Zero(t, count)

	_, err = f.cards.Get(card.ID, f.member.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d:", 40401))
}
