package main

import (
	"context"
	"fmt"
	"log"

	"lawncare-backend/internal/config"
	"lawncare-backend/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedBusinessProfile(ctx, db, cfg.BusinessName, cfg.BusinessAddress); err != nil {
		log.Fatalf("Seeding business profile failed: %v", err)
	}

	var result struct {
		TotalServices   int `db:"total_services"`
		OpenServices    int `db:"open_services"`
		Unassigned      int `db:"unassigned"`
		DelayedServices int `db:"delayed_services"`
	}

	query := `
		SELECT
			COUNT(*) AS total_services,
			COUNT(CASE WHEN completed_at IS NULL THEN 1 END) AS open_services,
			COUNT(CASE WHEN user_id IS NULL THEN 1 END) AS unassigned,
			(SELECT COUNT(DISTINCT service_id) FROM service_delay_history) AS delayed_services
		FROM services
	`
	if err := db.GetContext(ctx, &result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Total services:          %d\n", result.TotalServices)
	fmt.Printf("Open services:           %d\n", result.OpenServices)
	fmt.Printf("Unassigned services:     %d\n", result.Unassigned)
	fmt.Printf("Ever rain-delayed:       %d\n", result.DelayedServices)
	fmt.Println("============================================================")
}
