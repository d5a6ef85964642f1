package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterNotificationRoutes(router *gin.Engine, notificationController *controllers.NotificationController) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware())
	{
		notificationRoutes.GET("/", notificationController.ListNotifications)
		notificationRoutes.GET("/unread-count", notificationController.UnreadCount)
		notificationRoutes.POST("/:id/read", notificationController.MarkRead)
		notificationRoutes.POST("/read-all", notificationController.MarkAllRead)
	}
}
