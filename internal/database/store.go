package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"lawncare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

// ErrNotUpdatable is returned when UpdateByID is asked for a table or column
// outside the allowed set
var ErrNotUpdatable = errors.New("column is not updatable")

// updatable lists the columns UpdateByID may touch, per table
var updatable = map[string]map[string]bool{
	"services": {
		"scheduled_at": true,
		"notes":        true,
		"completed_at": true,
		"user_id":      true,
		"service_type": true,
	},
	"customers": {
		"name":    true,
		"email":   true,
		"phone":   true,
		"address": true,
		"lat":     true,
		"lng":     true,
	},
}

// Store is the Postgres-backed data layer
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// UpdateByID patches one row. Keys are applied in sorted order and
// updated_at is always bumped.
func (s *Store) UpdateByID(ctx context.Context, table, id string, patch map[string]any) error {
	allowed, ok := updatable[table]
	if !ok {
		return fmt.Errorf("table %q: %w", table, ErrNotUpdatable)
	}
	if len(patch) == 0 {
		return fmt.Errorf("empty patch for %s %s", table, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid %s id %q: %w", table, id, err)
	}

	columns := make([]string, 0, len(patch))
	for col := range patch {
		if !allowed[col] {
			return fmt.Errorf("%s.%s: %w", table, col, ErrNotUpdatable)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, patch[col])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", table, id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", table, id, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

const scheduledServiceColumns = `
	s.id, s.scheduled_at, c.name AS customer_name, s.service_type, s.customer_id, s.user_id
	FROM services s
	JOIN customers c ON c.id = s.customer_id`

func (s *Store) GetScheduledService(ctx context.Context, id string) (models.ScheduledService, error) {
	var svc models.ScheduledService
	query := `SELECT` + scheduledServiceColumns + ` WHERE s.id = $1`

	if err := s.db.GetContext(ctx, &svc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return svc, fmt.Errorf("service %s: %w", id, ErrNotFound)
		}
		return svc, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	return svc, nil
}

// ListScheduledBetween returns open services with from <= scheduled_at < to
func (s *Store) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledService, error) {
	services := []models.ScheduledService{}
	query := `SELECT` + scheduledServiceColumns + `
		WHERE s.completed_at IS NULL
		  AND s.scheduled_at >= $1
		  AND s.scheduled_at < $2
		ORDER BY s.scheduled_at ASC`

	if err := s.db.SelectContext(ctx, &services, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list scheduled services: %w", err)
	}
	return services, nil
}

func (s *Store) RecordDelay(ctx context.Context, h models.DelayHistory) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	query := `
		INSERT INTO service_delay_history (id, service_id, previous_scheduled_at, new_scheduled_at, reason, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query,
		h.ID, h.ServiceID, h.PreviousScheduledAt.UTC(), h.NewScheduledAt.UTC(), h.Reason, h.ActorID,
	); err != nil {
		return fmt.Errorf("failed to record delay for service %s: %w", h.ServiceID, err)
	}
	return nil
}

// ListDelayHistory returns the reschedules of one service, newest first.
// An unknown service is ErrNotFound rather than an empty list.
func (s *Store) ListDelayHistory(ctx context.Context, serviceID string) ([]models.DelayHistory, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM services WHERE id = $1)`, serviceID); err != nil {
		return nil, fmt.Errorf("failed to look up service %s: %w", serviceID, err)
	}
	if !exists {
		return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}

	history := []models.DelayHistory{}
	query := `
		SELECT id, service_id, previous_scheduled_at, new_scheduled_at, reason, actor_id, created_at
		FROM service_delay_history
		WHERE service_id = $1
		ORDER BY created_at DESC
	`
	if err := s.db.SelectContext(ctx, &history, query, serviceID); err != nil {
		return nil, fmt.Errorf("failed to list delay history: %w", err)
	}
	return history, nil
}

func (s *Store) GetFCMTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []string
	if err := s.db.SelectContext(ctx, &tokens, `SELECT token FROM fcm_tokens WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to get FCM tokens: %w", err)
	}
	return tokens, nil
}

// ListReminderTargets returns one row per (open service, device token) with
// from <= scheduled_at < to
func (s *Store) ListReminderTargets(ctx context.Context, from, to time.Time) ([]models.ReminderTarget, error) {
	targets := []models.ReminderTarget{}
	query := `
		SELECT s.id AS service_id, s.service_type, s.scheduled_at, s.customer_id,
		       c.name AS customer_name, s.user_id, ft.token
		FROM services s
		JOIN customers c ON c.id = s.customer_id
		JOIN fcm_tokens ft ON ft.user_id = s.user_id
		WHERE s.completed_at IS NULL
		  AND s.scheduled_at >= $1
		  AND s.scheduled_at < $2
		ORDER BY s.scheduled_at ASC, s.id
	`
	if err := s.db.SelectContext(ctx, &targets, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list reminder targets: %w", err)
	}
	return targets, nil
}

// MarkReminded records the reminder for (serviceID, window, scheduledAt) and
// reports false when that exact reminder was already sent
func (s *Store) MarkReminded(ctx context.Context, serviceID, window string, scheduledAt time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO job_reminders (service_id, reminder_window, scheduled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (service_id, reminder_window, scheduled_at) DO NOTHING
	`, serviceID, window, scheduledAt.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder: %w", err)
	}
	return rows == 1, nil
}
