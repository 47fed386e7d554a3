package main

import (
	"feedback-board-server/models"
	"feedback-board-server/storage"
	"fmt"
	"log"
	"os"
	"strings"
)

// Promotes an existing account to admin. Usage:
//
//	go run ./scripts user@example.com
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts <email>")
		os.Exit(1)
	}
	email := strings.ToLower(os.Args[1])

	storage.InitializeDB()

	var user models.User
	result := storage.DB.Where("email = ?", email).Limit(1).Find(&user)
	if result.Error != nil {
		log.Fatalf("Error looking up user: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		fmt.Printf("User with email %q not found\n", email)
		os.Exit(1)
	}

	if user.Role == "admin" {
		fmt.Printf("User %q is already an admin\n", email)
		return
	}

	user.Role = "admin"
	if err := storage.DB.Save(&user).Error; err != nil {
		log.Fatalf("Error updating user: %v", err)
	}

	fmt.Printf("Successfully made %q an admin\n", email)
	fmt.Println("Note: the user needs to login again to get a token with admin privileges")
}
