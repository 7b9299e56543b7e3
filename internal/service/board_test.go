package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

func TestCreateBoardBootstrapsDefaults(t *testing.T) {
	db := newTestDB(t)
	bc := &recordingBroadcaster{}
	boards := NewBoardService(db, bc)
	creator := createUser(t, db, "creator@example.com", "Cleo Creator")

	board, err := boards.Create("Launch Plan", creator)
	require.NoError(t, err)

	var cols []model.Column
	require.NoError(t, db.Where("board_id = ?", board.ID).Order("position ASC").Find(&cols).Error)
	require.Len(t, cols, 3)
	assert.Equal(t, "To Do", cols[0].Title)
	assert.Equal(t, "In Progress", cols[1].Title)
	assert.Equal(t, "Done", cols[2].Title)

	role, err := boards.RoleOf(board.ID, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, role)

	var count int64
	db.Model(&model.Activity{}).Where("board_id = ? AND action = ?", board.ID, "board_created").Count(&count)
	assert.EqualValues(t, 1, count)

	assert.Contains(t, bc.user, "1:board_created")
}

func TestCreateBoardRequiresName(t *testing.T) {
	db := newTestDB(t)
	boards := NewBoardService(db, &recordingBroadcaster{})
	creator := createUser(t, db, "creator@example.com", "Cleo Creator")

	_, err := boards.Create("   ", creator)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001:")
}

func TestInviteMember(t *testing.T) {
	f := newFixture(t)

	t.Run("owner invites by email", func(t *testing.T) {
		member, err := f.boards.InviteMember(f.board.ID, f.owner, "outsider@example.com", model.RoleViewer)
		require.NoError(t, err)
		assert.Equal(t, model.RoleViewer, member.Role)

		role, err := f.boards.RoleOf(f.board.ID, f.outsider.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleViewer, role)
	})

	t.Run("re-invite upserts the role instead of erroring", func(t *testing.T) {
		member, err := f.boards.InviteMember(f.board.ID, f.owner, "outsider@example.com", model.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, member.Role)

		role, err := f.boards.RoleOf(f.board.ID, f.outsider.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, role)
	})

	t.Run("re-invite with identical role is a silent no-op", func(t *testing.T) {
		before := f.activityCount(t)
		beforeEvents := len(f.bc.boardEvents())

		member, err := f.boards.InviteMember(f.board.ID, f.owner, "outsider@example.com", model.RoleMember)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, member.Role)
		assert.Equal(t, before, f.activityCount(t))
		assert.Len(t, f.bc.boardEvents(), beforeEvents)
	})

	t.Run("non-owner cannot invite", func(t *testing.T) {
		_, err := f.boards.InviteMember(f.board.ID, f.member, "outsider@example.com", model.RoleViewer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40302:")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.boards.InviteMember(f.board.ID, f.owner, "ghost@example.com", model.RoleMember)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40403:")
	})

	t.Run("owner role cannot be granted by invite", func(t *testing.T) {
		_, err := f.boards.InviteMember(f.board.ID, f.owner, "outsider@example.com", model.RoleOwner)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40001:")
	})
}

func TestRemoveMember(t *testing.T) {
	f := newFixture(t)

	t.Run("owner removes a member", func(t *testing.T) {
		require.NoError(t, f.boards.RemoveMember(f.board.ID, f.owner, f.viewer.ID))
		_, err := f.boards.RoleOf(f.board.ID, f.viewer.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40301:")
	})

	t.Run("owners cannot be removed", func(t *testing.T) {
		err := f.boards.RemoveMember(f.board.ID, f.owner, f.owner.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40003:")
	})

	t.Run("non-owner cannot remove", func(t *testing.T) {
		err := f.boards.RemoveMember(f.board.ID, f.member, f.member.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40302:")
	})

	t.Run("removing a non-member fails", func(t *testing.T) {
		err := f.boards.RemoveMember(f.board.ID, f.owner, f.viewer.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "40401:")
	})
}

func TestBoardsVisibleOnlyToMembers(t *testing.T) {
	f := newFixture(t)

	boards, err := f.boards.ListForUser(f.member.ID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, f.board.ID, boards[0].ID)

	boards, err = f.boards.ListForUser(f.outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, boards)

	_, _, err = f.boards.Detail(f.board.ID, f.outsider.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40301:")
}
