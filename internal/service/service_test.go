package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

// recordingBroadcaster captures notifications so tests can assert what was
// (and was not) broadcast.
type recordingBroadcaster struct {
	mu    sync.Mutex
	board []string // "boardID:event"
	user  []string // "userID:event"
}

func (r *recordingBroadcaster) NotifyBoard(boardID uint, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.board = append(r.board, fmt.Sprintf("%d:%s", boardID, event))
}

func (r *recordingBroadcaster) NotifyUser(userID uint, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = append(r.user, fmt.Sprintf("%d:%s", userID, event))
}

func (r *recordingBroadcaster) NotifyPresence(uint) {}

func (r *recordingBroadcaster) boardEvents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.board...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.BoardMember{},
		&model.Column{},
		&model.Card{},
		&model.Comment{},
		&model.Activity{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, name string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: name, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fixture is a board with one user per role and all services wired to a
// recording broadcaster.
type fixture struct {
	db         *gorm.DB
	bc         *recordingBroadcaster
	owner      *model.User
	member     *model.User
	viewer     *model.User
	outsider   *model.User
	board      *model.Board
	boards     *BoardService
	columns    *ColumnService
	cards      *CardService
	comments   *CommentService
	activities *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	bc := &recordingBroadcaster{}

	f := &fixture{
		db:         db,
		bc:         bc,
		owner:      createUser(t, db, "owner@example.com", "Olive Owner"),
		member:     createUser(t, db, "member@example.com", "Max Member"),
		viewer:     createUser(t, db, "viewer@example.com", "Vera Viewer"),
		outsider:   createUser(t, db, "outsider@example.com", "Oscar Outsider"),
		boards:     NewBoardService(db, bc),
		columns:    NewColumnService(db, bc),
		cards:      NewCardService(db, bc),
		comments:   NewCommentService(db, bc),
		activities: NewActivityService(db, 50),
	}

	board, err := f.boards.Create("Roadmap", f.owner)
	require.NoError(t, err)
	f.board = board

	require.NoError(t, db.Create(&model.BoardMember{BoardID: board.ID, UserID: f.member.ID, Role: model.RoleMember}).Error)
	require.NoError(t, db.Create(&model.BoardMember{BoardID: board.ID, UserID: f.viewer.ID, Role: model.RoleViewer}).Error)
	return f
}

func (f *fixture) boardColumns(t *testing.T) []model.Column {
	t.Helper()
	var cols []model.Column
	require.NoError(t, f.db.Where("board_id = ?", f.board.ID).Order("position ASC").Find(&cols).Error)
	return cols
}

func (f *fixture) columnCards(t *testing.T, columnID uint) []model.Card {
	t.Helper()
	var cards []model.Card
	require.NoError(t, f.db.Where("column_id = ?", columnID).Order("position ASC").Find(&cards).Error)
	return cards
}

func (f *fixture) activityCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Activity{}).Where("board_id = ?", f.board.ID).Count(&count).Error)
	return count
}
