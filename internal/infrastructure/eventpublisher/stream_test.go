package eventpublisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/hostledger/internal/domain"
)

func TestStreamPublisherAppendsEvent(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	p := NewStreamPublisher(client, "hostledger:events", 0)
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "group-1",
		AggregateType: domain.AggregateTypeGroup,
		EventType:     domain.EventTypeGroupRecorded,
		Payload:       map[string]any{"kind": "CONTRIBUTION", "amount": float64(10000)},
		CreatedAt:     time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), event))

	msgs, err := client.XRange(context.Background(), "hostledger:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	values := msgs[0].Values
	assert.Equal(t, "evt-1", values["event_id"])
	assert.Equal(t, domain.EventTypeGroupRecorded, values["event_type"])
	assert.Equal(t, "group-1", values["aggregate_id"])
	assert.Equal(t, "2024-05-10T12:00:00Z", values["created_at"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &payload))
	assert.Equal(t, "CONTRIBUTION", payload["kind"])
	assert.Equal(t, float64(10000), payload["amount"])
}

func TestStreamPublisherFailsWhenServerDown(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	s.Close()

	p := NewStreamPublisher(client, "hostledger:events", 1000)
	err := p.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostledger:events")
}
