// Command main runs the database seeder for Quill.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"quill/internal/bootstrap"
	"quill/internal/config"
	"quill/internal/middleware"
	"quill/internal/seed"
)

func main() {
	fake := flag.Int("fake", 0, "Number of generated posts to add on top of the fixtures")
	fakeSeed := flag.Int64("fake-seed", 0, "Seed for generated content (0 = random)")
	reset := flag.Bool("reset", true, "Delete existing users, posts and comments first")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	fixtures, err := seed.DefaultFixtures()
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	sum, err := seed.NewSeeder(store, middleware.Logger).Run(ctx, fixtures, seed.Options{
		Reset:    *reset,
		Fake:     *fake,
		FakeSeed: *fakeSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Created %d users, %d posts, %d comments", sum.Users, sum.Posts, sum.Comments)
	log.Println("🔐 Test accounts:")
	for _, u := range fixtures.Users {
		log.Printf("   %s (%s): %s / %s", u.Name, u.Role, u.Email, fixtures.Password)
	}
}
