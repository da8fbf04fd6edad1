package service

import (
	"context"

	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records domain events from the in-process bus in the activity log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	evt, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Warn("ActivityConsumer", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack so a bad payload is not redelivered forever
		msg.Ack()
		return
	}

	cs.logger.Info("ActivityConsumer", "Activity recorded", map[string]interface{}{
		"event_type":  evt.Type,
		"occurred_at": evt.OccurredAt,
		"data":        evt.Data,
	})
	msg.Ack()
}
