package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(router *gin.Engine) {
	uploadRoutes := router.Group("/upload")
	uploadRoutes.Use(middleware.AuthMiddleware())
	{
		uploadRoutes.POST("/photo", controllers.UploadPhoto)
	}
}
