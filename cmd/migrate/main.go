// Command migrate runs schema operations for the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// Schema changes only happen through the "up" command here.
	cfg.DBAutoMigrate = false

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		return up(ctx, cfg)
	case "status":
		return status(ctx, cfg)
	default:
		return usage()
	}
}

func up(ctx context.Context, cfg *config.Config) error {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() { _ = database.DisconnectMongo(client) }()
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		log.Println("mongo indexes ensured")
		return nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Println("automigrations applied")
	return nil
}

func status(ctx context.Context, cfg *config.Config) error {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer func() { _ = database.DisconnectMongo(client) }()
		names, err := db.ListCollectionNames(ctx, map[string]interface{}{})
		if err != nil {
			return fmt.Errorf("list collections: %w", err)
		}
		log.Printf("driver=%s collections=%v", cfg.DBDriver, names)
		return nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	pending := 0
	for _, m := range database.PersistentModels() {
		if !db.Migrator().HasTable(m) {
			log.Printf("pending: table for %T", m)
			pending++
		}
	}
	log.Printf("driver=%s models=%d pending=%d", cfg.DBDriver, len(database.PersistentModels()), pending)
	return nil
}
