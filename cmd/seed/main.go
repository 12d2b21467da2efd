package main

import (
	"context"
	"log"
	"log/slog"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/importer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting catalog seeding...", "dir", cfg.Poll.DataDir)

	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	slog.Info("Database connection established")

	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	loader := importer.New(db, cfg.Poll.DataDir)
	if err := loader.Run(context.Background()); err != nil {
		log.Fatal("Seeding failed:", err)
	}

	slog.Info("Catalog seeding completed successfully!")
}
