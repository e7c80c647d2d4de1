package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("webhook not found")
	ErrFailedToOpenDB   = errors.New("failed to open postgres DB")
	ErrFailedToCommit   = errors.New("failed to commit transaction")
	ErrFailedToRollback = errors.New("failed to rollback transaction")
)

const (
	DeliveryStatusPending  = "PENDING"
	DeliveryStatusSuccess  = "SUCCESS"
	DeliveryStatusFailed   = "FAILED"
	DeliveryStatusRetrying = "RETRYING"
)

type Webhook struct {
	ID              string
	UserID          string
	URL             string
	SecretEncrypted []byte
	EventTypes      []string
	Active          bool
	TotalDeliveries int64
	TotalFailures   int64
	LastSuccessAt   *time.Time
	LastFailureAt   *time.Time
	CreatedAt       time.Time
}

// SubscribedTo reports whether the webhook wants events of the given
// type. An empty subscription list means all events.
func (w *Webhook) SubscribedTo(eventType string) bool {
	if len(w.EventTypes) == 0 {
		return true
	}
	for _, t := range w.EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

type Delivery struct {
	ID           string
	WebhookID    string
	EventID      string
	EventType    string
	Payload      []byte
	Status       string
	Attempts     int
	NextRetryAt  time.Time
	LastError    *string
	ResponseCode *int
	DeliveredAt  *time.Time
	CreatedAt    time.Time
}

// DeliveryTask is a claimed delivery joined with the target webhook's
// endpoint and encrypted signing secret.
type DeliveryTask struct {
	Delivery
	URL             string
	SecretEncrypted []byte
}

// FailureOutcome records one failed delivery attempt. Terminal marks
// the delivery permanently failed instead of scheduling a retry.
type FailureOutcome struct {
	Attempts     int
	NextRetryAt  time.Time
	ResponseCode *int
	Error        string
	Terminal     bool
}

type WebhookStore interface {
	CreateWebhook(ctx context.Context, webhook *Webhook) error
	GetWebhook(ctx context.Context, id string) (*Webhook, error)
	GetWebhooksByUser(ctx context.Context, userID string) ([]*Webhook, error)
	UpdateWebhook(ctx context.Context, webhook *Webhook) error
	DeleteWebhook(ctx context.Context, id string) error
	GetSubscribers(ctx context.Context, eventType string) ([]*Webhook, error)
	EnqueueDeliveries(ctx context.Context, deliveries []*Delivery) error
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*DeliveryTask, error)
	MarkSucceeded(ctx context.Context, deliveryID string, responseCode int) error
	MarkFailed(ctx context.Context, deliveryID string, outcome FailureOutcome) error
	GetDeliveries(ctx context.Context, webhookID string, limit int) ([]*Delivery, error)
	Close() error
}
