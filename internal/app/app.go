package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
	"taskboard/internal/pdf"
	"taskboard/internal/repositories"
	"taskboard/internal/routes"
	"taskboard/internal/services"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	subtaskRepo := repositories.NewSubtaskRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.AccessTTL.Std())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	telegramService, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		// reminders degrade to email only
		log.Printf("telegram disabled: %v", err)
		telegramService = nil
	}

	// keep the notifier interface nil when telegram is off, so reminders
	// never count a no-op send as delivered
	var telegramNotifier services.TelegramNotifier
	if telegramService != nil {
		telegramNotifier = telegramService
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	taskService := services.NewTaskService(taskRepo, userRepo)
	subtaskService := services.NewSubtaskService(subtaskRepo, taskRepo)
	reminderService := services.NewReminderService(taskRepo, userRepo, emailService, telegramNotifier, cfg.Reminders.Window.Std())
	analyticsService := services.NewAnalyticsService(taskRepo, userRepo, pdf.NewReportGenerator())

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService, cfg.Auth.RefreshTTL.Std())
	profileHandler := handlers.NewProfileHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	subtaskHandler := handlers.NewSubtaskHandler(subtaskService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	adminHandler := handlers.NewAdminHandler(userService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		authHandler,
		profileHandler,
		taskHandler,
		subtaskHandler,
		analyticsHandler,
		reminderHandler,
		adminHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
