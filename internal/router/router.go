package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/handler"
	"github.com/AdarshKhare29/Karban-board/internal/middleware"
)

type Deps struct {
	DB              *gorm.DB
	JWTSecret       string
	AuthHandler     *handler.AuthHandler
	BoardHandler    *handler.BoardHandler
	ColumnHandler   *handler.ColumnHandler
	CardHandler     *handler.CardHandler
	CommentHandler  *handler.CommentHandler
	ActivityHandler *handler.ActivityHandler
	EventsHandler   *handler.EventsHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public routes (no auth)
	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		authed.GET("/auth/me", deps.AuthHandler.GetMe)

		// Per-user event stream
		authed.GET("/events", deps.EventsHandler.UserStream)

		// Boards
		boards := authed.Group("/boards")
		{
			boards.POST("", deps.BoardHandler.Create)
			boards.GET("", deps.BoardHandler.List)
			boards.GET("/:id", deps.BoardHandler.GetDetail)
			boards.GET("/:id/events", deps.EventsHandler.BoardStream)
			boards.GET("/:id/activities", deps.ActivityHandler.List)

			boards.POST("/:id/members", deps.BoardHandler.InviteMember)
			boards.DELETE("/:id/members/:user_id", deps.BoardHandler.RemoveMember)

			boards.POST("/:id/columns", deps.ColumnHandler.Create)
		}

		// Columns (standalone)
		columns := authed.Group("/columns")
		{
			columns.PUT("/:id", deps.ColumnHandler.Rename)
			columns.PUT("/:id/move", deps.ColumnHandler.Move)
			columns.DELETE("/:id", deps.ColumnHandler.Delete)
			columns.POST("/:id/cards", deps.CardHandler.Create)
		}

		// Cards (standalone)
		cards := authed.Group("/cards")
		{
			cards.GET("/:id", deps.CardHandler.Get)
			cards.PATCH("/:id", deps.CardHandler.Update)
			cards.PUT("/:id/move", deps.CardHandler.Move)
			cards.DELETE("/:id", deps.CardHandler.Delete)

			cards.POST("/:id/comments", deps.CommentHandler.Add)
			cards.GET("/:id/comments", deps.CommentHandler.List)
		}

		// Comments
		authed.DELETE("/comments/:id", deps.CommentHandler.Delete)
	}
}
