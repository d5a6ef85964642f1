package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"gatepass/database"
	"gatepass/internal/controllers"
	"gatepass/internal/notification"
	"gatepass/internal/repository"
	"gatepass/internal/verification"
	"gatepass/internal/workflow"
	"gatepass/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load("../.env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	studentRepo := repository.NewStudentRepository(database.DB)
	gatePassRepo := repository.NewGatePassRepository(database.DB)
	verificationRepo := repository.NewVerificationRepository(database.DB)
	notificationRepo := repository.NewNotificationRepository(database.DB)
	securityLogRepo := repository.NewSecurityLogRepository(database.DB)

	// Initialize services
	verificationService := verification.NewService(database.DB, verificationRepo, gatePassRepo, studentRepo)
	dispatcher := notification.NewDispatcher(notificationRepo)
	engine := workflow.NewEngine(database.DB, userRepo, studentRepo, gatePassRepo,
		verificationService, dispatcher)

	// Initialize controllers
	authController := controllers.NewAuthController(database.DB, userRepo, studentRepo, securityLogRepo)
	gatePassController := controllers.NewGatePassController(engine, gatePassRepo, studentRepo)
	verificationController := controllers.NewVerificationController(verificationService)
	notificationController := controllers.NewNotificationController(dispatcher)
	importController := controllers.NewImportController(database.DB)
	adminController := controllers.NewAdminController(userRepo, securityLogRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Gate Pass API is running",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	routes.RegisterAuthRoutes(router, authController)
	routes.RegisterGatePassRoutes(router, gatePassController)
	routes.RegisterVerificationRoutes(router, verificationController)
	routes.RegisterNotificationRoutes(router, notificationController)
	routes.RegisterImportRoutes(router, importController)
	routes.RegisterAdminRoutes(router, adminController)
	routes.RegisterUploadRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Gate Pass API server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
