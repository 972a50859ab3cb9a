// Command adduser creates a user and prints a signed API token for them.
//
//	go run ./cmd/adduser -email dispatch@example.com -role dispatcher -name "Front Desk"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"lawncare-backend/internal/config"
	"lawncare-backend/internal/database"
	"lawncare-backend/internal/middleware"
	"lawncare-backend/internal/models"
)

func main() {
	email := flag.String("email", "", "user email (required)")
	name := flag.String("name", "", "display name")
	role := flag.String("role", models.RoleDispatcher, "admin, dispatcher or crew")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔌 Connected to database")

	user := models.User{Email: *email, Role: *role}
	if *name != "" {
		user.Name = name
	}

	store := database.NewStore(db)
	if err := store.CreateUser(context.Background(), &user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			log.Fatalf("⚠️  User %s already exists", *email)
		}
		log.Fatalf("Failed to create user: %v", err)
	}
	log.Printf("✅ Created %s: %s (%s)", user.Role, user.Email, user.ID)

	token, err := middleware.IssueToken(cfg.JWTSecret, middleware.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
