package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"lawncare-backend/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// messagingClient is the part of *messaging.Client the service uses
type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// TokenStore looks up the device tokens registered by a user
type TokenStore interface {
	GetFCMTokens(ctx context.Context, userID string) ([]string, error)
}

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client messagingClient
	tokens TokenStore
}

// JobReminder is the push payload for an upcoming service
type JobReminder struct {
	ServiceID  string
	CustomerID string
	Title      string
	Body       string
	Urgent     bool
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string, tokens TokenStore) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile), tokens)
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string, tokens TokenStore) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON), tokens)
}

func newFCMService(opt option.ClientOption, tokens TokenStore) (*FCMService, error) {
	ctx := context.Background()

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, tokens: tokens}, nil
}

// SendJobReminder pushes a reminder for an upcoming service to one device
func (s *FCMService) SendJobReminder(ctx context.Context, token string, r JobReminder) error {
	priority, sound := "normal", ""
	if r.Urgent {
		priority, sound = "high", "default"
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: r.Title,
			Body:  r.Body,
		},
		Data: map[string]string{
			"type":       "job_reminder",
			"serviceId":  r.ServiceID,
			"customerId": r.CustomerID,
		},
		Android: &messaging.AndroidConfig{
			Priority: priority,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: sound,
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM reminder sent for service %s: %s", r.ServiceID, response)
	return nil
}

// SendRainDelayNotification tells the assigned user that a service moved
func (s *FCMService) SendRainDelayNotification(ctx context.Context, userID string, svc models.ScheduledService, decision models.DelayDecision) error {
	if !decision.IsDelayed || decision.NewScheduledAt == nil {
		return nil
	}

	tokens, err := s.tokens.GetFCMTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading FCM tokens for %s: %w", userID, err)
	}
	if len(tokens) == 0 {
		log.Printf("⚠️  No FCM tokens for user %s, rain delay notice skipped", userID)
		return nil
	}

	newAt := decision.NewScheduledAt
	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: "Service Rescheduled",
			Body:  fmt.Sprintf("%s. Now %s at %s.", decision.Reason, newAt.Format("Monday, January 2"), newAt.Format("3:04 PM")),
		},
		Data: map[string]string{
			"type":             "rain_delay",
			"serviceId":        svc.ID,
			"customerId":       svc.CustomerID,
			"new_scheduled_at": newAt.UTC().Format(time.RFC3339),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Rain delay notice sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}
