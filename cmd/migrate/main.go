package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jwhitfield/fairway/internal/models"
	"github.com/jwhitfield/fairway/pkg/config"
	"github.com/jwhitfield/fairway/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Round{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_rounds_user_date ON rounds(user_id, date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_rounds_status ON rounds(status)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"rounds",
		"courses",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

func seedData(db *database.DB) error {
	slope := 125
	rating := 71.2
	course := &models.Course{
		Name:         "Heather Glen",
		HoleCount:    18,
		SlopeRating:  &slope,
		CourseRating: &rating,
		Holes: models.HoleSpecs{
			{Number: 1, Par: 4, StrokeIndex: 5},
			{Number: 2, Par: 3, StrokeIndex: 17},
			{Number: 3, Par: 5, StrokeIndex: 1},
			{Number: 4, Par: 4, StrokeIndex: 9},
			{Number: 5, Par: 4, StrokeIndex: 13},
			{Number: 6, Par: 3, StrokeIndex: 15},
			{Number: 7, Par: 4, StrokeIndex: 3},
			{Number: 8, Par: 5, StrokeIndex: 7},
			{Number: 9, Par: 4, StrokeIndex: 11},
			{Number: 10, Par: 4, StrokeIndex: 6},
			{Number: 11, Par: 3, StrokeIndex: 18},
			{Number: 12, Par: 5, StrokeIndex: 2},
			{Number: 13, Par: 4, StrokeIndex: 10},
			{Number: 14, Par: 4, StrokeIndex: 14},
			{Number: 15, Par: 3, StrokeIndex: 16},
			{Number: 16, Par: 4, StrokeIndex: 4},
			{Number: 17, Par: 5, StrokeIndex: 8},
			{Number: 18, Par: 4, StrokeIndex: 12},
		},
	}
	if err := course.Validate(); err != nil {
		return fmt.Errorf("seed course invalid: %w", err)
	}
	if err := db.Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	// A provisioned account with a legacy plaintext credential. Its
	// first login migrates the credential to bcrypt, or it can be
	// activated with a fresh password.
	hi := 18.4
	user := &models.User{
		Email:         "demo@example.com",
		DisplayName:   "Demo Player",
		PasswordHash:  "changeme123",
		HandicapIndex: &hi,
	}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logrus.Infof("Seeded course %q and user %s", course.Name, user.Email)
	return nil
}
