package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/balancesheet-pro/apiserver/config"
	"github.com/balancesheet-pro/apiserver/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	published []Message
	channels  []string
}

func (m *memoryBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	m.channels = append(m.channels, channel)
	m.published = append(m.published, Message{ID: "m1", Data: data, Attributes: attrs})
	return "m1", nil
}

func (m *memoryBackend) Subscribe(ctx context.Context, _ string, handler Handler) error {
	for _, msg := range m.published {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryBackend) Close() error { return nil }

func TestPublishRecordCreated(t *testing.T) {
	backend := &memoryBackend{}
	publisher := NewEventPublisher(backend, "ledger-events")
	event := RecordCreatedEvent{
		Kind:       types.KindIncome,
		ID:         12,
		UserID:     3,
		Amount:     decimal.RequireFromString("99.95"),
		OccurredAt: time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
	}

	id, err := publisher.PublishRecordCreated(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, "m1", id)
	require.Len(t, backend.published, 1)
	assert.Equal(t, "ledger-events", backend.channels[0])
	assert.Equal(t, map[string]string{"type": EventRecordCreated, "kind": "income", "user_id": "3"}, backend.published[0].Attributes)
	assert.JSONEq(t,
		`{"kind":"income","id":12,"userId":3,"amount":99.95,"occurredAt":"2026-10-16T12:00:00Z"}`,
		string(backend.published[0].Data))
}

func TestSubscribeRecordCreated(t *testing.T) {
	backend := &memoryBackend{}
	publisher := NewEventPublisher(backend, "ledger-events")
	_, err := publisher.PublishRecordCreated(context.Background(), RecordCreatedEvent{Kind: types.KindLoans, ID: 1, UserID: 9, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	backend.published = append(backend.published,
		Message{Data: []byte("not json")},
		Message{Data: []byte(`{}`), Attributes: map[string]string{"type": "other"}},
	)

	var got []RecordCreatedEvent
	err = publisher.SubscribeRecordCreated(context.Background(), func(_ context.Context, event RecordCreatedEvent) error {
		got = append(got, event)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.KindLoans, got[0].Kind)
	assert.Equal(t, int64(9), got[0].UserID)
	assert.True(t, decimal.NewFromInt(5).Equal(got[0].Amount))
}

func TestSubscribeRecordCreatedPropagatesHandlerErrors(t *testing.T) {
	backend := &memoryBackend{}
	publisher := NewEventPublisher(backend, "ledger-events")
	_, err := publisher.PublishRecordCreated(context.Background(), RecordCreatedEvent{Kind: types.KindIncome})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = publisher.SubscribeRecordCreated(context.Background(), func(context.Context, RecordCreatedEvent) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestNewFromConfig(t *testing.T) {
	backend, err := NewFromConfig(context.Background(), config.MQConfig{Backend: config.BackendNone})
	require.NoError(t, err)
	assert.Nil(t, backend)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = NewFromConfig(context.Background(), config.MQConfig{Backend: config.BackendRabbitMQ})
	assert.Error(t, err, "empty url is rejected before dialing")
}
