package main

import (
	"fmt"
	"log"
	"os"

	"gatepass/database"
	"gatepass/internal/models"
	"gatepass/internal/repository"
	"gatepass/internal/utils"

	"github.com/joho/godotenv"
)

// Seeds the default superadmin account. The generated password is printed
// once and never stored in plain form; rerunning against a seeded database
// is a no-op.
func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	username := os.Getenv("SUPERADMIN_USERNAME")
	if username == "" {
		username = "superadmin"
	}

	users := repository.NewUserRepository(database.DB)

	exists, err := users.UsernameExists(username)
	if err != nil {
		log.Fatalf("Failed to check for existing superadmin: %v", err)
	}
	if exists {
		log.Printf("Superadmin %q already exists, nothing to do", username)
		return
	}

	password := utils.GeneratePassword(16)
	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:   username,
		Password:   hash,
		Role:       models.RoleSuperadmin,
		Gender:     "M",
		IsApproved: true,
		IsActive:   true,
	}
	if err := users.CreateUser(user); err != nil {
		log.Fatalf("Failed to create superadmin: %v", err)
	}

	fmt.Printf("Created superadmin %q\n", username)
	fmt.Printf("Initial password: %s\n", password)
	fmt.Println("Store this password now; it will not be shown again.")
}
