package database

import (
	"gatepass/internal/models"
	"log"
)

func MigrateDatabase() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Warden{},
		&models.Security{},
		&models.GatePass{},
		&models.ParentVerification{},
		&models.Notification{},
		&models.SecurityLog{},
	)

	if err != nil {
		log.Printf("Error during migration: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}
