package realtime

import "time"

// Event kinds delivered over a board or user stream.
const (
	EventBoardChanged    = "board_changed"
	EventPresenceChanged = "presence_changed"
	EventBoardsChanged   = "boards_changed"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type BoardChangedPayload struct {
	BoardID uint      `json:"boardId"`
	Event   string    `json:"event"`
	At      time.Time `json:"at"`
}

type PresenceChangedPayload struct {
	BoardID       uint      `json:"boardId"`
	OnlineUserIDs []uint    `json:"onlineUserIds"`
	At            time.Time `json:"at"`
}

type BoardsChangedPayload struct {
	UserID uint      `json:"userId"`
	Event  string    `json:"event"`
	At     time.Time `json:"at"`
}
