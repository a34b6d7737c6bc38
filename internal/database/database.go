package database

import (
	"fmt"
	"log"

	"eden-api/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	return MigrateAll(DB)
}

// MigrateAll migrates the full schema on the given connection.
func MigrateAll(db *gorm.DB) error {
	// Reference data first, user rows depend on it
	if err := db.AutoMigrate(&models.Rank{}); err != nil {
		return fmt.Errorf("rank migration failed: %w", err)
	}

	userModels := []interface{}{
		&models.User{},
		&models.Activity{},
		&models.Stats{},
		&models.Reward{},
		&models.Leader{},
	}

	for _, model := range userModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	taskModels := []interface{}{
		&models.Task{},
		&models.UserTask{},
	}

	for _, model := range taskModels {
		if err := db.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedRanks inserts the ten fixed rank tiers if they are not present yet.
// Existing rows are left untouched.
func SeedRanks(db *gorm.DB) error {
	for _, rank := range models.DefaultRanks() {
		if err := db.Where(models.Rank{ID: rank.ID}).FirstOrCreate(&rank).Error; err != nil {
			return fmt.Errorf("failed to seed rank %d: %w", rank.ID, err)
		}
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
