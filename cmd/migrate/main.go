package main

import (
	"log"

	"eden-api/internal/config"
	"eden-api/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the ten rank tiers
	if err := database.SeedRanks(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed ranks: %v", err)
	}

	log.Println("Migrations applied and ranks seeded")
}
