package raindelay

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawncare-backend/internal/events"
	"lawncare-backend/internal/models"
)

var errNotFound = errors.New("not found")

type fakeServices struct {
	byID     map[string]models.ScheduledService
	upcoming []models.ScheduledService
	from, to time.Time
}

func (f *fakeServices) GetScheduledService(ctx context.Context, id string) (models.ScheduledService, error) {
	svc, ok := f.byID[id]
	if !ok {
		return models.ScheduledService{}, errNotFound
	}
	return svc, nil
}

func (f *fakeServices) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]models.ScheduledService, error) {
	f.from, f.to = from, to
	return f.upcoming, nil
}

type fakeForecasts struct {
	days []models.DayForecast
	err  error
}

func (f *fakeForecasts) LatestForecast(ctx context.Context) ([]models.DayForecast, error) {
	return f.days, f.err
}

type fakeHistory struct{ rows []models.DelayHistory }

func (f *fakeHistory) RecordDelay(ctx context.Context, h models.DelayHistory) error {
	f.rows = append(f.rows, h)
	return nil
}

type fakeNotifier struct{ users []string }

func (f *fakeNotifier) SendRainDelayNotification(ctx context.Context, userID string, svc models.ScheduledService, d models.DelayDecision) error {
	f.users = append(f.users, userID)
	return nil
}

type fakePublisher struct{ events []events.Event }

func (f *fakePublisher) Publish(ctx context.Context, evt events.Event) error {
	f.events = append(f.events, evt)
	return nil
}

func strPtr(s string) *string { return &s }

type fixture struct {
	services  *fakeServices
	forecasts *fakeForecasts
	updater   *fakeUpdater
	history   *fakeHistory
	notifier  *fakeNotifier
	publisher *fakePublisher
	scheduler *Scheduler
}

func newFixture() *fixture {
	svc := testService()
	svc.CustomerID = "cust-1"
	svc.UserID = strPtr("crew-1")

	f := &fixture{
		services: &fakeServices{byID: map[string]models.ScheduledService{svc.ID: svc}},
		forecasts: &fakeForecasts{days: []models.DayForecast{
			day("2023-05-15", true, "Rain"),
			day("2023-05-16", false, "Clear"),
		}},
		updater:   &fakeUpdater{},
		history:   &fakeHistory{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.scheduler = NewScheduler(Deps{
		Services:  f.services,
		Forecasts: f.forecasts,
		Updater:   f.updater,
		History:   f.history,
		Notifier:  f.notifier,
		Publisher: f.publisher,
		Location:  time.UTC,
	})
	return f
}

func TestScheduler_CheckDoesNotPersist(t *testing.T) {
	f := newFixture()

	out, err := f.scheduler.Check(context.Background(), "123")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !out.Decision.IsDelayed || out.Cause != CauseRain {
		t.Errorf("outcome = %+v", out)
	}
	if out.Persisted || len(f.updater.calls) != 0 {
		t.Error("Check must not write")
	}
}

func TestScheduler_EvaluatePersistsAndFollowsUp(t *testing.T) {
	f := newFixture()

	out, err := f.scheduler.Evaluate(context.Background(), "123", "dispatcher-7")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !out.Persisted {
		t.Fatal("expected persisted delay")
	}

	if len(f.updater.calls) != 1 || f.updater.calls[0].id != "123" {
		t.Errorf("updater calls = %+v", f.updater.calls)
	}
	if len(f.history.rows) != 1 || f.history.rows[0].ActorID != "dispatcher-7" {
		t.Errorf("history = %+v", f.history.rows)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.TypeServiceDelayed {
		t.Errorf("events = %+v", f.publisher.events)
	}
	if len(f.notifier.users) != 1 || f.notifier.users[0] != "crew-1" {
		t.Errorf("notified = %v", f.notifier.users)
	}
}

func TestScheduler_FailedWriteSkipsFollowUp(t *testing.T) {
	f := newFixture()
	f.updater.err = errors.New("connection reset")

	out, err := f.scheduler.Evaluate(context.Background(), "123", SystemActor)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !out.Decision.IsDelayed || out.Persisted {
		t.Errorf("outcome = %+v, want delayed but not persisted", out)
	}
	if len(f.history.rows)+len(f.publisher.events)+len(f.notifier.users) != 0 {
		t.Error("follow-up work ran for an unpersisted delay")
	}
}

func TestScheduler_UnknownService(t *testing.T) {
	f := newFixture()
	if _, err := f.scheduler.Evaluate(context.Background(), "missing", SystemActor); !errors.Is(err, errNotFound) {
		t.Fatalf("error = %v, want wrapped not found", err)
	}
}

func TestScheduler_ForecastErrorDegradesToNoDelay(t *testing.T) {
	f := newFixture()
	f.forecasts.err = errors.New("cache unreadable")

	out, err := f.scheduler.Evaluate(context.Background(), "123", SystemActor)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if out.Decision.IsDelayed || out.Cause != CauseNoForecast {
		t.Errorf("outcome = %+v, want no delay", out)
	}
}

func TestScheduler_EvaluateUpcoming(t *testing.T) {
	f := newFixture()
	rainy := testService()
	sunny := testService()
	sunny.ID = "456"
	sunny.ScheduledAt = time.Date(2023, 5, 16, 9, 0, 0, 0, time.UTC)
	f.services.upcoming = []models.ScheduledService{rainy, sunny}

	now := time.Date(2023, 5, 14, 18, 0, 0, 0, time.UTC)
	res, err := f.scheduler.EvaluateUpcoming(context.Background(), now)
	if err != nil {
		t.Fatalf("EvaluateUpcoming: %v", err)
	}

	if res.Evaluated != 2 || res.Delayed != 1 || res.Persisted != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Outcomes) != 1 || res.Outcomes[0].ServiceID != "123" {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
	if !f.services.from.Equal(now) || f.services.to.Sub(now) != DefaultHorizon {
		t.Errorf("window = %v..%v", f.services.from, f.services.to)
	}
	// the service moved onto a clear day is not re-evaluated in the same sweep
	if len(f.updater.calls) != 1 {
		t.Errorf("updater called %d times, want 1", len(f.updater.calls))
	}
}

func TestScheduler_EvaluateUpcomingHonoursCancel(t *testing.T) {
	f := newFixture()
	f.services.upcoming = []models.ScheduledService{testService()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.scheduler.EvaluateUpcoming(ctx, time.Now()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
