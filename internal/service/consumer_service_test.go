package service

import (
	"context"
	"testing"
	"time"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsumerRecordsActivity(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := logger.NewWithCore(core)

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, NewConsumerService(bus, "TEST_EVENTS", log).Consume(ctx))

	activity := NewActivityPublisher(events.NewWatermillPublisher(bus, "TEST_EVENTS"), log)
	activity.UserLoggedOut(context.Background(), &entity.Principal{UserId: uuid.New(), Email: "driver@example.com"})

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Activity recorded").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("Activity recorded").All()[0]
	details, ok := entry.ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, EventUserLogout, details["event_type"])
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := logger.NewWithCore(core)

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, NewConsumerService(bus, "TEST_EVENTS", log).Consume(ctx))

	require.NoError(t, bus.Publish("TEST_EVENTS", message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Dropping malformed event").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
