package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"neurobridge-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherEnvelope(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "test_events")
	require.NoError(t, err)

	publisher := NewPublisherService("test_events", pubSub)

	userId := uuid.New()
	sessionId := uuid.New()
	require.NoError(t, publisher.Publish(ctx, events.SessionEnded(userId, sessionId, 42)))

	select {
	case msg := <-messages:
		var envelope eventEnvelope
		require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
		assert.Equal(t, "SESSION_ENDED", envelope.Type)
		assert.Equal(t, userId.String(), envelope.Data["user_id"])
		assert.Equal(t, sessionId.String(), envelope.Data["session_id"])
		assert.EqualValues(t, 42, envelope.Data["duration_seconds"])
		assert.False(t, envelope.OccurredAt.IsZero())
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
