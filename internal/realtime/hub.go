package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Broadcaster is the fan-out surface the mutation services depend on.
type Broadcaster interface {
	NotifyBoard(boardID uint, event string)
	NotifyUser(userID uint, event string)
	NotifyPresence(boardID uint)
}

// NoopBroadcaster discards every notification. Used in tests that exercise
// mutations without a live hub.
type NoopBroadcaster struct{}

func (NoopBroadcaster) NotifyBoard(uint, string) {}
func (NoopBroadcaster) NotifyUser(uint, string)  {}
func (NoopBroadcaster) NotifyPresence(uint)      {}

type subscriber struct {
	id uuid.UUID
	ch chan Event
}

// Hub routes events to two scopes: a room per board (structural and presence
// events) and a room per user (cross-board notices). Delivery is
// fire-and-forget; a subscriber whose buffer is full loses the event and is
// expected to re-fetch full state on reconnect.
type Hub struct {
	mu       sync.RWMutex
	boards   map[uint][]*subscriber
	users    map[uint][]*subscriber
	presence *Presence
	rdb      *redis.Client
}

// NewHub creates a hub. rdb may be nil; when set, every board-scoped event is
// additionally published on a Redis channel so a future multi-instance
// deployment can relay events between processes.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		boards:   make(map[uint][]*subscriber),
		users:    make(map[uint][]*subscriber),
		presence: NewPresence(),
		rdb:      rdb,
	}
}

func (h *Hub) SubscribeBoard(boardID uint) (<-chan Event, func()) {
	return h.subscribe(h.boards, boardID)
}

func (h *Hub) SubscribeUser(userID uint) (<-chan Event, func()) {
	return h.subscribe(h.users, userID)
}

func (h *Hub) subscribe(rooms map[uint][]*subscriber, key uint) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{id: uuid.New(), ch: make(chan Event, 256)}
	rooms[key] = append(rooms[key], sub)

	unsub := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := rooms[key]
		for i, s := range subs {
			if s.id == sub.id {
				rooms[key] = append(subs[:i], subs[i+1:]...)
				close(sub.ch)
				break
			}
		}
		if len(rooms[key]) == 0 {
			delete(rooms, key)
		}
	}
	return sub.ch, unsub
}

// JoinBoard records a new connection for presence and pushes a fresh presence
// snapshot to the room. The caller must have passed the membership check
// before joining.
func (h *Hub) JoinBoard(boardID, userID uint) {
	h.presence.Join(boardID, userID)
	h.NotifyPresence(boardID)
}

func (h *Hub) LeaveBoard(boardID, userID uint) {
	h.presence.Leave(boardID, userID)
	h.NotifyPresence(boardID)
}

func (h *Hub) OnlineUsers(boardID uint) []uint {
	return h.presence.Online(boardID)
}

func (h *Hub) NotifyBoard(boardID uint, event string) {
	h.broadcastBoard(boardID, Event{
		Type: EventBoardChanged,
		Data: BoardChangedPayload{BoardID: boardID, Event: event, At: time.Now()},
	})
}

func (h *Hub) NotifyPresence(boardID uint) {
	h.broadcastBoard(boardID, Event{
		Type: EventPresenceChanged,
		Data: PresenceChangedPayload{
			BoardID:       boardID,
			OnlineUserIDs: h.presence.Online(boardID),
			At:            time.Now(),
		},
	})
}

func (h *Hub) NotifyUser(userID uint, event string) {
	ev := Event{
		Type: EventBoardsChanged,
		Data: BoardsChangedPayload{UserID: userID, Event: event, At: time.Now()},
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.users[userID] {
		select {
		case sub.ch <- ev:
		default:
			// drop if full
		}
	}
}

func (h *Hub) broadcastBoard(boardID uint, ev Event) {
	h.publish(boardID, ev)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.boards[boardID] {
		select {
		case sub.ch <- ev:
		default:
			// drop if full
		}
	}
}

// publish mirrors board events onto Redis. Failures are logged and swallowed;
// the in-process delivery already happened or is about to.
func (h *Hub) publish(boardID uint, ev Event) {
	if h.rdb == nil {
		return
	}
	data, _ := json.Marshal(ev)
	key := fmt.Sprintf("board:events:%d", boardID)
	if err := h.rdb.Publish(context.Background(), key, string(data)).Err(); err != nil {
		logrus.WithFields(logrus.Fields{"board_id": boardID, "event": ev.Type}).
			WithError(err).Warn("publish board event to redis failed")
	}
}
