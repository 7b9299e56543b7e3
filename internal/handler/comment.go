package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// POST /cards/:id/comments
func (h *CommentHandler) Add(c *gin.Context) {
	cardID := parseID(c.Param("id"))
	var req struct {
		Body string `json:"body" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	comment, err := h.commentService.Add(cardID, user, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, comment)
}

// GET /cards/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	cardID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	comments, err := h.commentService.List(cardID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, comments)
}

// DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID := parseID(c.Param("id"))
	user := middleware.GetCurrentUser(c)
	if err := h.commentService.Delete(commentID, user); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
