package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// GET /boards/:id/activities
func (h *ActivityHandler) List(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)
	page, pageSize := parsePage(c)

	entries, total, err := h.activityService.List(boardID, userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	list := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		item := gin.H{
			"id":          e.ID,
			"entity_type": e.EntityType,
			"entity_id":   e.EntityID,
			"action":      e.Action,
			"message":     e.Message,
			"metadata":    e.Metadata,
			"created_at":  e.CreatedAt,
		}
		if e.Actor != nil {
			item["actor"] = e.Actor.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}
