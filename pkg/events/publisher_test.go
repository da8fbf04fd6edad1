package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisherDeliversEnvelope(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	messages, err := bus.Subscribe(context.Background(), "activity")
	require.NoError(t, err)

	occurred := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	pub := NewWatermillPublisher(bus, "activity")
	require.NoError(t, pub.Publish(context.Background(), BaseEvent{
		Type:       "USER_LOGIN",
		Data:       map[string]interface{}{"email": "driver@example.com"},
		OccurredAt: occurred,
	}))

	select {
	case msg := <-messages:
		assert.Equal(t, "USER_LOGIN", msg.Metadata.Get("event_type"))
		got, err := Unmarshal(msg.Payload)
		require.NoError(t, err)
		assert.Equal(t, "USER_LOGIN", got.Type)
		assert.Equal(t, "driver@example.com", got.Data["email"])
		assert.True(t, occurred.Equal(got.OccurredAt))
		msg.Ack()
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMultiPublisherJoinsErrors(t *testing.T) {
	boom := errors.New("nats down")
	m := MultiPublisher{failingPublisher{}, failingPublisher{err: boom}}

	err := m.Publish(context.Background(), BaseEvent{Type: "X"})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, MultiPublisher{failingPublisher{}}.Publish(context.Background(), BaseEvent{Type: "X"}))
}
