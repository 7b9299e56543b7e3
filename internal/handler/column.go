package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type ColumnHandler struct {
	columnService *service.ColumnService
}

func NewColumnHandler(columnService *service.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// POST /boards/:id/columns
func (h *ColumnHandler) Create(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	var req struct {
		Title string `json:"title" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	column, err := h.columnService.Create(boardID, user, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, column)
}

// PUT /columns/:id
func (h *ColumnHandler) Rename(c *gin.Context) {
	columnID := parseID(c.Param("id"))
	var req struct {
		Title string `json:"title" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	column, err := h.columnService.Rename(columnID, user, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, column)
}

// PUT /columns/:id/move
func (h *ColumnHandler) Move(c *gin.Context) {
	columnID := parseID(c.Param("id"))
	var req struct {
		ToIndex *int `json:"to_index" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	column, err := h.columnService.Move(columnID, user, *req.ToIndex)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, column)
}

// DELETE /columns/:id
func (h *ColumnHandler) Delete(c *gin.Context) {
	columnID := parseID(c.Param("id"))
	user := middleware.GetCurrentUser(c)
	if err := h.columnService.Delete(columnID, user); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
