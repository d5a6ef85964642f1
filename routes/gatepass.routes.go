package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"
	"gatepass/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterGatePassRoutes(router *gin.Engine, gatePassController *controllers.GatePassController) {
	gatePassRoutes := router.Group("/gatepass")
	gatePassRoutes.Use(middleware.AuthMiddleware())
	{
		gatePassRoutes.POST("/",
			middleware.RequireRoles(models.RoleStudent),
			gatePassController.CreateGatePass)
		gatePassRoutes.GET("/", gatePassController.ListGatePasses)
		gatePassRoutes.GET("/:id", gatePassController.GetGatePass)

		gatePassRoutes.POST("/:id/decision",
			middleware.RequireRoles(models.RoleWarden),
			gatePassController.WardenDecision)
		gatePassRoutes.POST("/:id/exit",
			middleware.RequireRoles(models.RoleSecurity),
			gatePassController.SecurityExit)
		gatePassRoutes.POST("/:id/return",
			middleware.RequireRoles(models.RoleSecurity),
			gatePassController.SecurityReturn)
		gatePassRoutes.POST("/:id/complete",
			middleware.RequireRoles(models.RoleSuperadmin),
			gatePassController.CompleteGatePass)
		gatePassRoutes.DELETE("/:id",
			middleware.RequireRoles(models.RoleSuperadmin),
			gatePassController.DeleteGatePass)
	}
}
