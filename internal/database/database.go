package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 URL prefix: %s...", dbURL[:min(30, len(dbURL))])
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ DATABASE CONNECTION FAILED: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ DATABASE PING FAILED: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT,
		role TEXT NOT NULL CHECK(role IN ('admin', 'dispatcher', 'crew')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Single row in practice; the address feeds the forecast refresher
	`CREATE TABLE IF NOT EXISTS business_profiles (
		id TEXT PRIMARY KEY,
		business_name TEXT NOT NULL,
		address TEXT,
		weather_cache JSONB,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		user_id TEXT,
		service_type TEXT NOT NULL DEFAULT '',
		scheduled_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
	)`,

	`CREATE TABLE IF NOT EXISTS fcm_tokens (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS service_delay_history (
		id TEXT PRIMARY KEY,
		service_id TEXT NOT NULL,
		previous_scheduled_at TIMESTAMPTZ NOT NULL,
		new_scheduled_at TIMESTAMPTZ NOT NULL,
		reason TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS job_reminders (
		id SERIAL PRIMARY KEY,
		service_id TEXT NOT NULL,
		reminder_window TEXT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE CASCADE
	)`,

	// A reminder is owed once per window for each scheduled time, so a
	// rescheduled service is reminded again for its new date
	`ALTER TABLE job_reminders ADD COLUMN IF NOT EXISTS scheduled_at TIMESTAMPTZ`,
	`ALTER TABLE job_reminders DROP CONSTRAINT IF EXISTS job_reminders_service_id_reminder_window_key`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_job_reminders_dedupe ON job_reminders(service_id, reminder_window, scheduled_at)`,

	// Create indexes
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_services_scheduled_at ON services(scheduled_at)`,
	`CREATE INDEX IF NOT EXISTS idx_services_open ON services(scheduled_at) WHERE completed_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_services_user_id ON services(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_delay_history_service_id ON service_delay_history(service_id)`,
	`CREATE INDEX IF NOT EXISTS idx_delay_history_created_at ON service_delay_history(created_at)`,
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}
