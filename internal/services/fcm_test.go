package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lawncare-backend/internal/models"

	"firebase.google.com/go/v4/messaging"
)

type fakeMessaging struct {
	sent      []*messaging.Message
	multicast []*messaging.MulticastMessage
	err       error
}

func (f *fakeMessaging) Send(ctx context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "projects/p/messages/1", f.err
}

func (f *fakeMessaging) SendEachForMulticast(ctx context.Context, m *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	f.multicast = append(f.multicast, m)
	if f.err != nil {
		return nil, f.err
	}
	return &messaging.BatchResponse{SuccessCount: len(m.Tokens)}, nil
}

type fakeTokens map[string][]string

func (f fakeTokens) GetFCMTokens(ctx context.Context, userID string) ([]string, error) {
	return f[userID], nil
}

func TestSendJobReminder_UrgentIsHighPriority(t *testing.T) {
	client := &fakeMessaging{}
	s := &FCMService{client: client}

	err := s.SendJobReminder(context.Background(), "tok-1", JobReminder{
		ServiceID:  "svc-1",
		CustomerID: "cust-1",
		Title:      "Upcoming Service in 1 Hour!",
		Body:       "You have a Lawn Mowing service for John Doe at 10:00 AM on Monday, May 15",
		Urgent:     true,
	})
	if err != nil {
		t.Fatalf("SendJobReminder: %v", err)
	}

	m := client.sent[0]
	if m.Token != "tok-1" || m.Android.Priority != "high" {
		t.Errorf("message = %+v", m)
	}
	if m.Data["serviceId"] != "svc-1" || m.Data["customerId"] != "cust-1" {
		t.Errorf("data = %v", m.Data)
	}
}

func TestSendJobReminder_WrapsError(t *testing.T) {
	cause := errors.New("unregistered token")
	s := &FCMService{client: &fakeMessaging{err: cause}}
	if err := s.SendJobReminder(context.Background(), "tok", JobReminder{}); !errors.Is(err, cause) {
		t.Fatalf("error = %v", err)
	}
}

func TestSendRainDelayNotification(t *testing.T) {
	client := &fakeMessaging{}
	s := &FCMService{client: client, tokens: fakeTokens{"crew-1": {"a", "b"}}}

	newAt := time.Date(2023, 5, 16, 10, 0, 0, 0, time.UTC)
	decision := models.DelayDecision{IsDelayed: true, NewScheduledAt: &newAt, Reason: "Service for John Doe (Lawn Mowing) delayed due to rain in the forecast"}
	svc := models.ScheduledService{ID: "svc-1", CustomerID: "cust-1"}

	if err := s.SendRainDelayNotification(context.Background(), "crew-1", svc, decision); err != nil {
		t.Fatalf("SendRainDelayNotification: %v", err)
	}
	if len(client.multicast) != 1 {
		t.Fatalf("multicast sends = %d", len(client.multicast))
	}
	m := client.multicast[0]
	if len(m.Tokens) != 2 || m.Data["new_scheduled_at"] != "2023-05-16T10:00:00Z" {
		t.Errorf("message = %+v", m)
	}
	if !strings.Contains(m.Notification.Body, "Tuesday, May 16") {
		t.Errorf("body = %q", m.Notification.Body)
	}
}

func TestSendRainDelayNotification_NoTokensOrNoDelay(t *testing.T) {
	client := &fakeMessaging{}
	s := &FCMService{client: client, tokens: fakeTokens{}}

	newAt := time.Now()
	if err := s.SendRainDelayNotification(context.Background(), "crew-1", models.ScheduledService{}, models.DelayDecision{IsDelayed: true, NewScheduledAt: &newAt}); err != nil {
		t.Fatalf("no tokens: %v", err)
	}
	if err := s.SendRainDelayNotification(context.Background(), "crew-1", models.ScheduledService{}, models.NoDelay()); err != nil {
		t.Fatalf("no delay: %v", err)
	}
	if len(client.multicast) != 0 {
		t.Error("nothing should be sent")
	}
}
