package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdarshKhare29/Karban-board/internal/middleware"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,max=128"`
		Name     string `json:"name" binding:"required,max=64"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Register(req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	Success(c, gin.H{
		"user":      user.Brief(),
		"token":     token,
		"expire_at": expireAt,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "invalid request body: "+err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	Success(c, gin.H{
		"user":      user.Brief(),
		"token":     token,
		"expire_at": expireAt,
	})
}

// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	Success(c, user.Brief())
}
