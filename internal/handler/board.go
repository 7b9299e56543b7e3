package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type BoardHandler struct {
	boardService *service.BoardService
	hub          *realtime.Hub
}

func NewBoardHandler(boardService *service.BoardService, hub *realtime.Hub) *BoardHandler {
	return &BoardHandler{boardService: boardService, hub: hub}
}

// POST /boards
func (h *BoardHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	board, err := h.boardService.Create(req.Name, user)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, board)
}

// GET /boards
func (h *BoardHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	boards, err := h.boardService.ListForUser(userID)
	if err != nil {
		InternalError(c, "list boards failed")
		return
	}

	list := make([]gin.H, 0, len(boards))
	for _, b := range boards {
		item := gin.H{
			"id":         b.ID,
			"name":       b.Name,
			"created_at": b.CreatedAt,
			"updated_at": b.UpdatedAt,
		}
		if b.Creator != nil {
			item["creator"] = b.Creator.Brief()
		}
		list = append(list, item)
	}
	Success(c, list)
}

// GET /boards/:id
func (h *BoardHandler) GetDetail(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	board, role, err := h.boardService.Detail(boardID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	members := make([]gin.H, 0, len(board.Members))
	for _, m := range board.Members {
		item := gin.H{
			"user_id":   m.UserID,
			"role":      m.Role,
			"joined_at": m.JoinedAt,
		}
		if m.User != nil {
			item["name"] = m.User.Name
			item["email"] = m.User.Email
		}
		members = append(members, item)
	}

	data := gin.H{
		"id":              board.ID,
		"name":            board.Name,
		"created_at":      board.CreatedAt,
		"my_role":         role,
		"members":         members,
		"columns":         board.Columns,
		"online_user_ids": h.hub.OnlineUsers(board.ID),
	}
	if board.Creator != nil {
		data["creator"] = board.Creator.Brief()
	}
	Success(c, data)
}

// POST /boards/:id/members
func (h *BoardHandler) InviteMember(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	var req struct {
		Email string `json:"email" binding:"required"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	member, err := h.boardService.InviteMember(boardID, user, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{
		"user_id":   member.UserID,
		"role":      member.Role,
		"joined_at": member.JoinedAt,
	}
	if member.User != nil {
		data["name"] = member.User.Name
		data["email"] = member.User.Email
	}
	Success(c, data)
}

// DELETE /boards/:id/members/:user_id
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	boardID := parseID(c.Param("id"))
	targetID := parseID(c.Param("user_id"))

	user := middleware.GetCurrentUser(c)
	if err := h.boardService.RemoveMember(boardID, user, targetID); err != nil {
		respondError(c, err)
		return
	}
	Success(c, nil)
}
