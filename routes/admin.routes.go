package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"
	"gatepass/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterAdminRoutes(router *gin.Engine, adminController *controllers.AdminController) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware())
	{
		adminRoutes.PUT("/users/:id/approve",
			middleware.RequireRoles(models.RoleWarden, models.RoleSuperadmin),
			adminController.ApproveUser)
		adminRoutes.PUT("/users/:id/deactivate",
			middleware.RequireRoles(models.RoleSuperadmin),
			adminController.DeactivateUser)
		adminRoutes.GET("/security-logs",
			middleware.RequireRoles(models.RoleSecurity, models.RoleSuperadmin),
			adminController.ListSecurityLogs)
	}
}
