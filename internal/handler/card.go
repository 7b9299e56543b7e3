package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type CardHandler struct {
	cardService *service.CardService
}

func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// POST /columns/:id/cards
func (h *CardHandler) Create(c *gin.Context) {
	columnID := parseID(c.Param("id"))
	var req struct {
		Title       string `json:"title" binding:"required,max=256"`
		Description string `json:"description" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	card, err := h.cardService.Create(columnID, user, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, card)
}

// GET /cards/:id
func (h *CardHandler) Get(c *gin.Context) {
	cardID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	card, err := h.cardService.Get(cardID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, card)
}

// PATCH /cards/:id
//
// The body is decoded key-by-key so an explicit null (clear assignee or due
// date) stays distinguishable from an omitted field. A no-op patch returns
// the unchanged card with the same success envelope.
func (h *CardHandler) Update(c *gin.Context) {
	cardID := parseID(c.Param("id"))

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	card, err := h.cardService.Update(cardID, user, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, card)
}

// PUT /cards/:id/move
func (h *CardHandler) Move(c *gin.Context) {
	cardID := parseID(c.Param("id"))
	var req struct {
		ToColumnID uint `json:"to_column_id" binding:"required"`
		ToIndex    *int `json:"to_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	card, err := h.cardService.Move(cardID, user, req.ToColumnID, *req.ToIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, card)
}

// DELETE /cards/:id
func (h *CardHandler) Delete(c *gin.Context) {
	cardID := parseID(c.Param("id"))
	user := middleware.GetCurrentUser(c)
	if err := h.cardService.Delete(cardID, user); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
