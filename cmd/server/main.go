package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/config"
	"github.com/AdarshKhare29/Karban-board/internal/handler"
	"github.com/AdarshKhare29/Karban-board/internal/model"
	"github.com/AdarshKhare29/Karban-board/internal/realtime"
	"github.com/AdarshKhare29/Karban-board/internal/router"
	"github.com/AdarshKhare29/Karban-board/internal/service"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Database
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.BoardMember{},
		&model.Column{},
		&model.Card{},
		&model.Comment{},
		&model.Activity{},
	); err != nil {
		logrus.Fatalf("auto migrate: %v", err)
	}

	// Redis is optional; without it board events stay in-process only.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	hub := realtime.NewHub(rdb)

	// Services
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	boardService := service.NewBoardService(db, hub)
	columnService := service.NewColumnService(db, hub)
	cardService := service.NewCardService(db, hub)
	commentService := service.NewCommentService(db, hub)
	activityService := service.NewActivityService(db, cfg.Activity.MaxPageSize)

	// Handlers
	deps := router.Deps{
		DB:              db,
		JWTSecret:       cfg.JWT.Secret,
		AuthHandler:     handler.NewAuthHandler(authService),
		BoardHandler:    handler.NewBoardHandler(boardService, hub),
		ColumnHandler:   handler.NewColumnHandler(columnService),
		CardHandler:     handler.NewCardHandler(cardService),
		CommentHandler:  handler.NewCommentHandler(commentService),
		ActivityHandler: handler.NewActivityHandler(activityService),
		EventsHandler:   handler.NewEventsHandler(boardService, hub),
	}

	r := gin.Default()
	router.Setup(r, deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logrus.Infof("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logrus.Fatalf("server: %v", err)
	}
}
