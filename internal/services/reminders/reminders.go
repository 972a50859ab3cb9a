// Package reminders pushes "upcoming service" notifications to the crew
// assigned to a job, one hour and one day ahead.
package reminders

import (
	"context"
	"fmt"
	"log"
	"time"

	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/models"
	"lawncare-backend/internal/services"
)

// Window is a reminder horizon
type Window string

const (
	WindowOneHour Window = "1h"
	WindowOneDay  Window = "24h"
)

type Store interface {
	ListReminderTargets(ctx context.Context, from, to time.Time) ([]models.ReminderTarget, error)
	// MarkReminded records that serviceID got its reminder for window at
	// scheduledAt and reports false if it already had one. A service moved to
	// a new time is owed new reminders.
	MarkReminded(ctx context.Context, serviceID string, window string, scheduledAt time.Time) (bool, error)
}

type Sender interface {
	SendJobReminder(ctx context.Context, token string, r services.JobReminder) error
}

type Result struct {
	OneHour int `json:"one_hour_reminders"`
	OneDay  int `json:"one_day_reminders"`
	Failed  int `json:"failed"`
}

type Service struct {
	store  Store
	sender Sender
	loc    *time.Location
}

func New(store Store, sender Sender, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, sender: sender, loc: loc}
}

// Run sends reminders for open services in [now, now+1h) and [now+1h, now+24h)
func (s *Service) Run(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	sent, failed, err := s.send(ctx, WindowOneHour, now, now.Add(time.Hour))
	if err != nil {
		return res, err
	}
	res.OneHour, res.Failed = sent, failed

	sent, failed, err = s.send(ctx, WindowOneDay, now.Add(time.Hour), now.Add(24*time.Hour))
	if err != nil {
		return res, err
	}
	res.OneDay, res.Failed = sent, res.Failed+failed

	metrics.ObserveReminders(string(WindowOneHour), res.OneHour)
	metrics.ObserveReminders(string(WindowOneDay), res.OneDay)
	return res, nil
}

// Loop runs reminders on every tick until ctx is cancelled
func (s *Service) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.Run(ctx, time.Now())
			if err != nil {
				log.Printf("❌ [REMINDERS] Run failed: %v", err)
				continue
			}
			if res.OneHour+res.OneDay > 0 {
				log.Printf("📣 [REMINDERS] Sent %d (1h) and %d (24h) reminders", res.OneHour, res.OneDay)
			}
		}
	}
}

func (s *Service) send(ctx context.Context, window Window, from, to time.Time) (sent, failed int, err error) {
	targets, err := s.store.ListReminderTargets(ctx, from, to)
	if err != nil {
		return 0, 0, fmt.Errorf("list %s reminder targets: %w", window, err)
	}

	// targets are one row per device; group them so a service is marked once
	byService := make(map[string][]models.ReminderTarget)
	var order []string
	for _, t := range targets {
		if _, ok := byService[t.ServiceID]; !ok {
			order = append(order, t.ServiceID)
		}
		byService[t.ServiceID] = append(byService[t.ServiceID], t)
	}

	for _, id := range order {
		fresh, err := s.store.MarkReminded(ctx, id, string(window), byService[id][0].ScheduledAt)
		if err != nil {
			log.Printf("❌ [REMINDERS] Failed to mark service %s: %v", id, err)
			failed++
			continue
		}
		if !fresh {
			continue
		}

		for _, t := range byService[id] {
			if err := s.sender.SendJobReminder(ctx, t.Token, Build(t, window, s.loc)); err != nil {
				log.Printf("❌ [REMINDERS] Error processing reminder for service %s: %v", id, err)
				failed++
				continue
			}
			sent++
		}
	}

	return sent, failed, nil
}

// Build renders the push message for one target
func Build(t models.ReminderTarget, window Window, loc *time.Location) services.JobReminder {
	at := t.ScheduledAt.In(loc)
	r := services.JobReminder{
		ServiceID:  t.ServiceID,
		CustomerID: t.CustomerID,
		Title:      "Service Reminder",
		Body: fmt.Sprintf("You have a %s service for %s at %s on %s",
			t.ServiceType, t.CustomerName, at.Format("3:04 PM"), at.Format("Monday, January 2")),
	}
	if window == WindowOneHour {
		r.Title = "Upcoming Service in 1 Hour!"
		r.Urgent = true
	}
	return r
}
