package realtime

import (
	"sort"
	"sync"
)

// Presence reference-counts live connections per (board, user). One user may
// hold several connections (multiple tabs), so a user counts as online while
// at least one of their connections remains. All mutations go through one
// mutex with short critical sections.
type Presence struct {
	mu     sync.Mutex
	boards map[uint]map[uint]int // boardID -> userID -> connection count
}

func NewPresence() *Presence {
	return &Presence{boards: make(map[uint]map[uint]int)}
}

func (p *Presence) Join(boardID, userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	users := p.boards[boardID]
	if users == nil {
		users = make(map[uint]int)
		p.boards[boardID] = users
	}
	users[userID]++
}

// Leave decrements the connection count. It is idempotent: leaving a
// board/user pair with no recorded connections is a no-op, which tolerates
// duplicate disconnect notifications.
func (p *Presence) Leave(boardID, userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	users := p.boards[boardID]
	if users == nil {
		return
	}
	if users[userID] <= 1 {
		delete(users, userID)
	} else {
		users[userID]--
	}
	if len(users) == 0 {
		delete(p.boards, boardID)
	}
}

// Online returns the ids of users with at least one live connection on the
// board, in ascending order.
func (p *Presence) Online(boardID uint) []uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	users := p.boards[boardID]
	ids := make([]uint, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
