package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arianbazaar/storefront-api/internal/config"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run cmd/create-admin/main.go <email> <password> <full-name>")
		fmt.Println("Example: go run cmd/create-admin/main.go admin@example.com s3cret \"Site Admin\"")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]
	fullName := os.Args[3]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create admin account
	admin := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}

	err = repos.Users.Create(context.Background(), admin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin created successfully!\n\n")
	fmt.Printf("User ID: %s\n", admin.ID.String())
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Printf("\nLog in at POST /v1/auth/login to obtain a token.\n")
}
