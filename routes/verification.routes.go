package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"
	"gatepass/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterVerificationRoutes(router *gin.Engine, verificationController *controllers.VerificationController) {
	verificationRoutes := router.Group("/verification")
	verificationRoutes.Use(middleware.AuthMiddleware())
	{
		verificationRoutes.POST("/:id/send",
			middleware.RequireRoles(models.RoleWarden, models.RoleSuperadmin),
			verificationController.SendCode)
		verificationRoutes.POST("/:id/verify",
			middleware.RequireRoles(models.RoleWarden, models.RoleSecurity, models.RoleSuperadmin),
			verificationController.VerifyCode)
	}
}
