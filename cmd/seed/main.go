package main

import (
	"errors"
	"log"
	"os"
	"time"

	"traffic-assistant-be/internal/model"
	"traffic-assistant-be/internal/pkg/credential"
	"traffic-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type demoAccount struct {
	Email    string
	FullName string
	Password string
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	log.Println("Seeding demo accounts...")

	accounts := []demoAccount{
		{Email: "demo@trafficlaw.local", FullName: "Demo Driver", Password: getEnv("SEED_DEMO_PASSWORD", "demo-password")},
	}

	for _, a := range accounts {
		var existing model.User
		err := db.Where("email = ?", a.Email).First(&existing).Error
		if err == nil {
			log.Printf("Account '%s' already exists, skipping...", a.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error looking up '%s': %v", a.Email, err)
		}

		hash, err := credential.HashPassword(a.Password)
		if err != nil {
			log.Fatalf("Error hashing password for '%s': %v", a.Email, err)
		}

		now := time.Now().UTC()
		user := model.User{
			Id:           uuid.New(),
			Email:        a.Email,
			FullName:     a.FullName,
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating account '%s': %v", a.Email, err)
		} else {
			log.Printf("Created account: %s (%s)", a.FullName, a.Email)
		}
	}

	log.Println("Seeding completed!")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
