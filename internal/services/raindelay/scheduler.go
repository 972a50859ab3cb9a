package raindelay

import (
	"context"
	"fmt"
	"log"
	"time"

	"lawncare-backend/internal/events"
	"lawncare-backend/internal/metrics"
	"lawncare-backend/internal/models"
)

const (
	// SystemActor is recorded on delays applied by the background sweep
	SystemActor = "system"

	// DefaultHorizon matches the span of the cached forecast
	DefaultHorizon = 72 * time.Hour
)

type ServiceSource interface {
	GetScheduledService(ctx context.Context, id string) (models.ScheduledService, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledService, error)
}

type ForecastSource interface {
	LatestForecast(ctx context.Context) ([]models.DayForecast, error)
}

type HistoryRecorder interface {
	RecordDelay(ctx context.Context, h models.DelayHistory) error
}

type Notifier interface {
	SendRainDelayNotification(ctx context.Context, userID string, svc models.ScheduledService, decision models.DelayDecision) error
}

// Deps are the collaborators of a Scheduler. History, Notifier and Publisher
// are optional.
type Deps struct {
	Services  ServiceSource
	Forecasts ForecastSource
	Updater   DataUpdater
	History   HistoryRecorder
	Notifier  Notifier
	Publisher events.Publisher
	Location  *time.Location
	Horizon   time.Duration
}

// Scheduler runs the delay evaluation against stored services and the cached
// forecast, and applies the follow-up work of a persisted delay
type Scheduler struct {
	services  ServiceSource
	forecasts ForecastSource
	updater   DataUpdater
	history   HistoryRecorder
	notifier  Notifier
	publisher events.Publisher
	loc       *time.Location
	horizon   time.Duration
}

func NewScheduler(d Deps) *Scheduler {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	horizon := d.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	return &Scheduler{
		services:  d.Services,
		forecasts: d.Forecasts,
		updater:   d.Updater,
		history:   d.History,
		notifier:  d.Notifier,
		publisher: d.Publisher,
		loc:       loc,
		horizon:   horizon,
	}
}

// Outcome is the result of evaluating one service
type Outcome struct {
	ServiceID string               `json:"service_id"`
	Cause     Cause                `json:"cause"`
	Decision  models.DelayDecision `json:"decision"`
	Persisted bool                 `json:"persisted"`
}

// SweepResult summarizes EvaluateUpcoming
type SweepResult struct {
	Evaluated int       `json:"evaluated"`
	Delayed   int       `json:"delayed"`
	Persisted int       `json:"persisted"`
	Failed    int       `json:"failed"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Check evaluates a stored service without persisting anything
func (s *Scheduler) Check(ctx context.Context, serviceID string) (Outcome, error) {
	svc, err := s.services.GetScheduledService(ctx, serviceID)
	if err != nil {
		return Outcome{ServiceID: serviceID}, fmt.Errorf("load service %s: %w", serviceID, err)
	}

	svc = svc.In(s.loc)
	decision, cause := Classify(svc, s.forecast(ctx))
	return Outcome{ServiceID: svc.ID, Cause: cause, Decision: decision}, nil
}

// Evaluate checks a stored service and, if it must move, persists the delay
func (s *Scheduler) Evaluate(ctx context.Context, serviceID, actorID string) (Outcome, error) {
	svc, err := s.services.GetScheduledService(ctx, serviceID)
	if err != nil {
		return Outcome{ServiceID: serviceID}, fmt.Errorf("load service %s: %w", serviceID, err)
	}
	return s.evaluate(ctx, svc, s.forecast(ctx), actorID), nil
}

// EvaluateUpcoming evaluates every open service inside the forecast horizon.
// Each service is shifted at most once per sweep.
func (s *Scheduler) EvaluateUpcoming(ctx context.Context, now time.Time) (SweepResult, error) {
	result := SweepResult{Outcomes: []Outcome{}}

	services, err := s.services.ListScheduledBetween(ctx, now, now.Add(s.horizon))
	if err != nil {
		return result, fmt.Errorf("list upcoming services: %w", err)
	}

	forecast := s.forecast(ctx)
	if len(forecast) == 0 {
		log.Printf("⚠️  [RAIN DELAY] No cached forecast, %d services left unchanged", len(services))
	}

	for _, svc := range services {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := s.evaluate(ctx, svc, forecast, SystemActor)
		result.Evaluated++
		if out.Decision.IsDelayed {
			result.Delayed++
			if out.Persisted {
				result.Persisted++
			} else {
				result.Failed++
			}
			result.Outcomes = append(result.Outcomes, out)
		}
	}

	return result, nil
}

// Run sweeps on every tick until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("🌦️  [RAIN DELAY] Auto-reschedule sweep every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.EvaluateUpcoming(ctx, time.Now())
			if err != nil {
				log.Printf("❌ [RAIN DELAY] Sweep failed: %v", err)
				continue
			}
			if res.Delayed > 0 {
				log.Printf("🌧️  [RAIN DELAY] Sweep: %d evaluated, %d delayed, %d failed", res.Evaluated, res.Delayed, res.Failed)
			}
		}
	}
}

func (s *Scheduler) evaluate(ctx context.Context, svc models.ScheduledService, forecast []models.DayForecast, actorID string) Outcome {
	svc = svc.In(s.loc)
	decision, cause := Classify(svc, forecast)
	metrics.ObserveDelayDecision(cause.String())

	out := Outcome{ServiceID: svc.ID, Cause: cause, Decision: decision}
	if !decision.IsDelayed {
		return out
	}

	out.Persisted = ApplyDelay(ctx, s.updater, svc.ID, *decision.NewScheduledAt, decision.Reason)
	metrics.ObserveDelayWrite(out.Persisted)
	if out.Persisted {
		s.afterDelay(ctx, svc, decision, actorID)
	}
	return out
}

// forecast returns the cached forecast; a lookup failure degrades to no forecast
func (s *Scheduler) forecast(ctx context.Context) []models.DayForecast {
	if s.forecasts == nil {
		return nil
	}
	days, err := s.forecasts.LatestForecast(ctx)
	if err != nil {
		log.Printf("⚠️  [RAIN DELAY] Forecast unavailable: %v", err)
		return nil
	}
	return days
}

func (s *Scheduler) afterDelay(ctx context.Context, svc models.ScheduledService, decision models.DelayDecision, actorID string) {
	if s.history != nil {
		err := s.history.RecordDelay(ctx, models.DelayHistory{
			ServiceID:           svc.ID,
			PreviousScheduledAt: svc.ScheduledAt,
			NewScheduledAt:      *decision.NewScheduledAt,
			Reason:              decision.Reason,
			ActorID:             actorID,
		})
		if err != nil {
			log.Printf("⚠️  [RAIN DELAY] Failed to record history for service %s: %v", svc.ID, err)
		}
	}

	if s.publisher != nil {
		evt := events.New(events.TypeServiceDelayed, events.ServiceDelayed{
			ServiceID:           svc.ID,
			CustomerID:          svc.CustomerID,
			CustomerName:        svc.CustomerName,
			ServiceType:         svc.ServiceType,
			PreviousScheduledAt: svc.ScheduledAt,
			NewScheduledAt:      *decision.NewScheduledAt,
			Reason:              decision.Reason,
			ActorID:             actorID,
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			log.Printf("⚠️  [RAIN DELAY] Failed to publish delay of service %s: %v", svc.ID, err)
		}
	}

	if s.notifier != nil && svc.UserID != nil && *svc.UserID != "" {
		if err := s.notifier.SendRainDelayNotification(ctx, *svc.UserID, svc, decision); err != nil {
			log.Printf("⚠️  [RAIN DELAY] Failed to notify user %s: %v", *svc.UserID, err)
		}
	}
}
