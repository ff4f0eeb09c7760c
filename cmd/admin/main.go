// Package main provides admin management utilities for Quill.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"quill/internal/bootstrap"
	"quill/internal/config"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <email>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <email>    - Demote admin to user")
		os.Exit(1)
	}

	var role models.Role
	switch os.Args[1] {
	case "promote":
		role = models.RoleAdmin
	case "demote":
		role = models.RoleUser
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := setRole(ctx, store.Users, os.Args[2], role); err != nil {
		log.Fatal(err)
	}
}

func setRole(ctx context.Context, users repository.UserRepository, email string, role models.Role) error {
	email = validation.NormalizeEmail(email)
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return fmt.Errorf("user with email %s not found", email)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.Role == role {
		fmt.Printf("User %s (%s) already has role %s\n", user.Name, user.Email, role)
		return nil
	}

	if err := users.UpdateRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	fmt.Printf("✅ %s (%s) is now %s. The change applies at their next login.\n", user.Name, user.Email, role)
	return nil
}
