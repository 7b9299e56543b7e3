package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

const heartbeatInterval = 30 * time.Second

type EventsHandler struct {
	boardService *service.BoardService
	hub          *realtime.Hub
}

func NewEventsHandler(boardService *service.BoardService, hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{boardService: boardService, hub: hub}
}

// GET /boards/:id/events
//
// Server-sent event stream for one board room. The membership check runs
// before the connection joins; a non-member gets an explicit error event and
// the stream closes, rather than a silent drop. The connection counts toward
// presence for the whole time it stays open.
func (h *EventsHandler) BoardStream(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	user := middleware.GetCurrentUser(c)

	flusher, ok := setupStream(c)
	if !ok {
		return
	}

	if _, err := h.boardService.RoleOf(boardID, user.ID); err != nil {
		code, msg := parseErrorCode(err)
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"code\":%d,\"message\":%q}\n\n", code, msg)
		flusher.Flush()
		return
	}

	// Subscribe before joining so this connection receives the presence
	// snapshot its own join produces.
	ch, unsub := h.hub.SubscribeBoard(boardID)
	defer unsub()
	h.hub.JoinBoard(boardID, user.ID)
	defer h.hub.LeaveBoard(boardID, user.ID)

	streamEvents(c, flusher, ch)
}

// GET /events
//
// Per-user stream for cross-board notices ("you were added to a board").
// Requires authentication only; there is no board to gate on.
func (h *EventsHandler) UserStream(c *gin.Context) {
	user := middleware.GetCurrentUser(c)

	flusher, ok := setupStream(c)
	if !ok {
		return
	}

	ch, unsub := h.hub.SubscribeUser(user.ID)
	defer unsub()

	streamEvents(c, flusher, ch)
}

func setupStream(c *gin.Context) (http.Flusher, bool) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		InternalError(c, "streaming not supported")
		return nil, false
	}
	return flusher, true
}

func streamEvents(c *gin.Context, flusher http.Flusher, ch <-chan realtime.Event) {
	ctx := c.Request.Context()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(ev.Data)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Type, string(data))
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
