package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/authz"
	"taskboard/internal/handlers"
	"taskboard/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	taskHandler *handlers.TaskHandler,
	subtaskHandler *handlers.SubtaskHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	reminderHandler *handlers.ReminderHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ---- public
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// ---- protected
	auth := api.Group("", middleware.AuthMiddleware())

	auth.POST("/auth/logout", authHandler.Logout)
	auth.GET("/auth/me", authHandler.Me)
	auth.PUT("/auth/password", authHandler.ChangePassword)

	auth.GET("/profile", profileHandler.Get)
	auth.PUT("/profile", profileHandler.Update)

	tasks := auth.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		// static routes first: /completed and /reorder must not be
		// captured as task ids
		tasks.DELETE("/completed", taskHandler.ClearCompleted)
		tasks.PUT("/reorder", taskHandler.Reorder)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.PUT("/:id/assign", taskHandler.Assign)
		tasks.GET("/:id/subtasks", subtaskHandler.ListByTask)
		tasks.POST("/:id/subtasks", subtaskHandler.Create)
	}

	auth.PUT("/subtasks/:id", subtaskHandler.Update)
	auth.DELETE("/subtasks/:id", subtaskHandler.Delete)

	auth.GET("/analytics/summary", analyticsHandler.Summary)
	auth.GET("/analytics/export", analyticsHandler.Export)

	auth.POST("/reminders/send", reminderHandler.Send)

	admin := auth.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
	}

	return r
}
