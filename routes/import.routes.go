package routes

import (
	"gatepass/internal/controllers"
	"gatepass/internal/middleware"
	"gatepass/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterImportRoutes(router *gin.Engine, importController *controllers.ImportController) {
	importRoutes := router.Group("/import")
	importRoutes.Use(middleware.AuthMiddleware(),
		middleware.RequireRoles(models.RoleSuperadmin))
	{
		importRoutes.POST("/students", importController.ImportStudents)
		importRoutes.POST("/gatepasses", importController.ImportGatePasses)
	}
}
