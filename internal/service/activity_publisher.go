package service

import (
	"context"
	"time"

	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/pkg/events"

	"github.com/google/uuid"
)

const (
	EventUserRegistered      = "USER_REGISTERED"
	EventUserLogin           = "USER_LOGIN"
	EventUserLogout          = "USER_LOGOUT"
	EventConversationCreated = "CONVERSATION_CREATED"
	EventConversationDeleted = "CONVERSATION_DELETED"
	EventChatAnswered        = "CHAT_ANSWERED"
)

const publishTimeout = 3 * time.Second

// IActivityPublisher emits domain events. Publishing is best effort: failures are logged
// and never returned to the caller.
type IActivityPublisher interface {
	UserRegistered(ctx context.Context, user *entity.User)
	UserLoggedIn(ctx context.Context, user *entity.User)
	UserLoggedOut(ctx context.Context, principal *entity.Principal)
	ConversationCreated(ctx context.Context, conversation *entity.Conversation, source string)
	ConversationDeleted(ctx context.Context, conversation *entity.Conversation, deletedMessages int64)
	ChatAnswered(ctx context.Context, conversation *entity.Conversation, messageId uuid.UUID, fallback bool)
}

type activityPublisher struct {
	publisher events.Publisher
	logger    logger.ILogger
}

// NewActivityPublisher accepts a nil publisher, in which case every call is a no-op.
func NewActivityPublisher(publisher events.Publisher, logger logger.ILogger) IActivityPublisher {
	return &activityPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *activityPublisher) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.publisher.Publish(pubCtx, evt); err != nil {
		p.logger.Warn("ActivityPublisher", "Failed to publish "+eventType+" event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (p *activityPublisher) UserRegistered(ctx context.Context, user *entity.User) {
	p.emit(ctx, EventUserRegistered, map[string]interface{}{
		"user_id":   user.Id.String(),
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

func (p *activityPublisher) UserLoggedIn(ctx context.Context, user *entity.User) {
	p.emit(ctx, EventUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})
}

func (p *activityPublisher) UserLoggedOut(ctx context.Context, principal *entity.Principal) {
	p.emit(ctx, EventUserLogout, map[string]interface{}{
		"user_id": principal.UserId.String(),
		"email":   principal.Email,
	})
}

func (p *activityPublisher) ConversationCreated(ctx context.Context, conversation *entity.Conversation, source string) {
	p.emit(ctx, EventConversationCreated, map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"user_id":         conversation.UserId.String(),
		"title":           conversation.Title,
		"source":          source,
	})
}

func (p *activityPublisher) ConversationDeleted(ctx context.Context, conversation *entity.Conversation, deletedMessages int64) {
	p.emit(ctx, EventConversationDeleted, map[string]interface{}{
		"conversation_id":  conversation.Id.String(),
		"user_id":          conversation.UserId.String(),
		"deleted_messages": deletedMessages,
	})
}

func (p *activityPublisher) ChatAnswered(ctx context.Context, conversation *entity.Conversation, messageId uuid.UUID, fallback bool) {
	p.emit(ctx, EventChatAnswered, map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"user_id":         conversation.UserId.String(),
		"message_id":      messageId.String(),
		"fallback":        fallback,
	})
}
