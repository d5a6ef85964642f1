package routes

import (
	"gatepass/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(router *gin.Engine, authController *controllers.AuthController) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register/student", authController.RegisterStudent)
		authRoutes.POST("/register/warden", authController.RegisterWarden)
		authRoutes.POST("/register/security", authController.RegisterSecurity)
		authRoutes.POST("/login", authController.Login)
	}
}
