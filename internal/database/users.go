package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lawncare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrConflict = errors.New("already exists")

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}

	err := s.db.GetContext(ctx, &u.CreatedAt, `
		INSERT INTO users (id, email, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SaveFCMToken registers a device token; a token moves to the latest user
// that registers it
func (s *Store) SaveFCMToken(ctx context.Context, userID, token, deviceType string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fcm_tokens (user_id, token, device_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			device_type = EXCLUDED.device_type
	`, userID, token, deviceType)
	if err != nil {
		return fmt.Errorf("failed to save FCM token: %w", err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c, `
		SELECT id, name, email, phone, address, lat, lng, created_at, updated_at
		FROM customers WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// ListCustomersWithoutLocation returns customers with an address but no coordinates
func (s *Store) ListCustomersWithoutLocation(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := s.db.SelectContext(ctx, &customers, `
		SELECT id, name, email, phone, address, lat, lng, created_at, updated_at
		FROM customers
		WHERE (lat IS NULL OR lng IS NULL)
		  AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
