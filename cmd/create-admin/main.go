package main

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/micdr93/yardly/internal/database"
	"github.com/micdr93/yardly/internal/model"
)

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) (string, error) {
	for {
		suffix, err := database.RandomString(4)
		if err != nil {
			return "", err
		}
		username := "admin_" + suffix
		var count int64
		if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return username, nil
		}
	}
}

func main() {
	dbInstance, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer func() { _ = dbInstance.Close() }()

	username, err := generateUniqueUsername(dbInstance.DB)
	if err != nil {
		log.Fatal("failed to generate username: ", err)
	}
	password, err := database.RandomString(8)
	if err != nil {
		log.Fatal("failed to generate password: ", err)
	}

	admin, err := database.CreateAdmin(dbInstance.DB, username, password)
	if err != nil {
		log.Fatal("failed to create admin: ", err)
	}

	// Print credentials (only show plain password here!)
	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", admin.Username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")
}
