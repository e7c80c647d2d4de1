package webhook

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventListingEnded      EventType = "LISTING_ENDED"
	EventBidOutbid         EventType = "BID_OUTBID"
	EventSaleCompleted     EventType = "SALE_COMPLETED"
	EventEscrowReleased    EventType = "ESCROW_RELEASED"
	EventWithdrawalExpired EventType = "WITHDRAWAL_EXPIRED"
	EventDisputeOpened     EventType = "DISPUTE_OPENED"
)

// ValidEventType reports whether s names a known event type.
func ValidEventType(s string) bool {
	switch EventType(s) {
	case EventListingEnded, EventBidOutbid, EventSaleCompleted, EventEscrowReleased, EventWithdrawalExpired, EventDisputeOpened:
		return true
	}
	return false
}

// Event is the envelope delivered to subscribers.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(eventType EventType, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}
