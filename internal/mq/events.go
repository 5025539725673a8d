package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
)

// EventRecordCreated is the type attribute of RecordCreatedEvent messages.
const EventRecordCreated = "record.created"

// RecordCreatedEvent announces a stored ledger record.
type RecordCreatedEvent struct {
	Kind       types.Kind      `json:"kind"`
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher encodes ledger events onto a single channel of a Backend.
type EventPublisher struct {
	backend Backend
	channel string
}

func NewEventPublisher(backend Backend, channel string) *EventPublisher {
	return &EventPublisher{backend: backend, channel: channel}
}

// PublishRecordCreated sends the event and returns the broker message id.
func (p *EventPublisher) PublishRecordCreated(ctx context.Context, event RecordCreatedEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", EventRecordCreated, err)
	}
	attrs := map[string]string{
		"type":    EventRecordCreated,
		"kind":    string(event.Kind),
		"user_id": strconv.FormatInt(event.UserID, 10),
	}
	return p.backend.Publish(ctx, p.channel, data, attrs)
}

// SubscribeRecordCreated decodes record.created messages from the channel
// and hands them to fn. Messages of other types are acknowledged and skipped.
func (p *EventPublisher) SubscribeRecordCreated(ctx context.Context, fn func(context.Context, RecordCreatedEvent) error) error {
	return p.backend.Subscribe(ctx, p.channel, func(ctx context.Context, msg Message) error {
		if t, ok := msg.Attributes["type"]; ok && t != EventRecordCreated {
			return nil
		}
		var event RecordCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Redelivering a malformed payload cannot succeed.
			return nil
		}
		return fn(ctx, event)
	})
}
