package service

import (
	"context"
	"time"

	"traffic-assistant-be/internal/dto"
	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/internal/repository/unitofwork"
	"traffic-assistant-be/pkg/assistant"
	"traffic-assistant-be/pkg/llm"

	"github.com/google/uuid"
)

const FallbackResponseText = "I apologize, but I'm currently unable to process your question. Please try again later."

type IChatService interface {
	Ask(ctx context.Context, principal *entity.Principal, req *dto.AskRequest) (*dto.AskResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	responder  assistant.Responder
	activity   IActivityPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	responder assistant.Responder,
	activity IActivityPublisher,
	logger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		responder:  responder,
		activity:   activity,
		logger:     logger,
		now:        utcNow,
	}
}

// Ask resolves or creates the conversation, stores the question, asks the responder with
// the prior turns and stores the answer. Each stored message bumps the conversation counter.
// There is no transaction around the flow, so a failure after the question is stored leaves
// it unanswered.
func (s *chatService) Ask(ctx context.Context, principal *entity.Principal, req *dto.AskRequest) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var conversation *entity.Conversation
	var err error
	if req.ConversationId != "" {
		conversation, err = loadOwnedConversation(ctx, uow, principal, req.ConversationId)
		if err != nil {
			return nil, err
		}
	} else {
		conversation, err = createConversation(ctx, uow, principal.UserId, ConversationTitle(req.Message), s.now())
		if err != nil {
			return nil, err
		}
		s.activity.ConversationCreated(ctx, conversation, "chat")
	}

	question, err := s.appendMessage(ctx, uow, conversation.Id, entity.MessageRoleUser, req.Message, conversation.UpdatedAt)
	if err != nil {
		return nil, err
	}

	stored, err := listMessages(ctx, uow, conversation.Id)
	if err != nil {
		return nil, err
	}
	history := toHistory(stored, question.Id)

	fallback := false
	answer, err := s.responder.GenerateResponse(ctx, req.Message, history)
	if err != nil {
		s.logger.Error("ChatService", "Responder failed, using fallback answer", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		answer = FallbackResponseText
		fallback = true
	}

	reply, err := s.appendMessage(ctx, uow, conversation.Id, entity.MessageRoleAssistant, answer, question.CreatedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChatService", "Question answered", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"message_id":      reply.Id.String(),
		"fallback":        fallback,
	})
	s.activity.ChatAnswered(ctx, conversation, reply.Id, fallback)

	return &dto.AskResponse{
		Response:       answer,
		ConversationId: conversation.Id,
		MessageId:      reply.Id,
	}, nil
}

// appendMessage stores a message stamped strictly after `after` and touches the conversation.
func (s *chatService) appendMessage(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, role entity.MessageRole, content string, after time.Time) (*entity.Message, error) {
	at := s.now()
	if !at.After(after) {
		at = after.Add(time.Microsecond)
	}

	msg := &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversationId,
		Role:           role,
		Content:        content,
		CreatedAt:      at,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Touch(ctx, conversationId, at); err != nil {
		return nil, err
	}
	return msg, nil
}

// toHistory converts stored messages to responder turns, leaving out the question just asked.
func toHistory(messages []*entity.Message, questionId uuid.UUID) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Id == questionId {
			continue
		}
		role := llm.RoleUser
		if m.Role == entity.MessageRoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history
}
