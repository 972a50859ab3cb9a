package database

import (
	"context"
	"log"
	"time"

	"lawncare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SeedBusinessProfile creates the business profile when none exists
func SeedBusinessProfile(ctx context.Context, db *sqlx.DB, name, address string) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM business_profiles"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Business profile already seeded, skipping...")
		return nil
	}

	var addr *string
	if address != "" {
		addr = &address
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO business_profiles (id, business_name, address) VALUES ($1, $2, $3)`,
		uuid.New().String(), name, addr,
	); err != nil {
		return err
	}

	log.Printf("🌱 Seeded business profile: %s", name)
	return nil
}

// SeedDemo inserts a crew member, a few customers and services spread over
// the next three days. It does nothing when services already exist.
func SeedDemo(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM services"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Services already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding demo data...")

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	crewID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`,
		crewID, "crew@lawncare.local", "Demo Crew", models.RoleCrew,
	); err != nil {
		return err
	}

	customers := []struct {
		name, address string
		lat, lng      float64
		serviceType   string
		inDays        int
	}{
		{"John Doe", "123 Main St, Stafford, VA", 38.4220, -77.4083, "Lawn Mowing", 0},
		{"Jane Smith", "45 Garrisonville Rd, Stafford, VA", 38.4770, -77.4180, "Hedge Trimming", 1},
		{"Bob Johnson", "9 Courthouse Rd, Stafford, VA", 38.4129, -77.3672, "Leaf Removal", 2},
	}

	// 9 AM business day slots
	base := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	for _, c := range customers {
		customerID := uuid.New().String()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, address, lat, lng) VALUES ($1, $2, $3, $4, $5)`,
			customerID, c.name, c.address, c.lat, c.lng,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO services (id, customer_id, user_id, service_type, scheduled_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), customerID, crewID, c.serviceType, base.AddDate(0, 0, c.inDays).UTC(),
		); err != nil {
			return err
		}
		log.Printf("  ✓ Created %s for %s", c.serviceType, c.name)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Println("✓ Successfully seeded demo data")
	return nil
}
