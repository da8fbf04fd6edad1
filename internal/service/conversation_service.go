package service

import (
	"context"
	"time"

	"traffic-assistant-be/internal/dto"
	"traffic-assistant-be/internal/entity"
	"traffic-assistant-be/internal/pkg/apperror"
	"traffic-assistant-be/internal/pkg/logger"
	"traffic-assistant-be/internal/repository/specification"
	"traffic-assistant-be/internal/repository/unitofwork"
	"traffic-assistant-be/pkg/access"

	"github.com/google/uuid"
)

const conversationResource = "conversation"

type IConversationService interface {
	Create(ctx context.Context, principal *entity.Principal, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	List(ctx context.Context, principal *entity.Principal) ([]*dto.ConversationResponse, error)
	Get(ctx context.Context, principal *entity.Principal, conversationId string) (*dto.ConversationResponse, error)
	ListMessages(ctx context.Context, principal *entity.Principal, conversationId string) ([]*dto.MessageResponse, error)
	Delete(ctx context.Context, principal *entity.Principal, conversationId string) (*dto.DeleteConversationResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	activity   IActivityPublisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, activity IActivityPublisher, logger logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
		activity:   activity,
		logger:     logger,
		now:        utcNow,
	}
}

func (s *conversationService) Create(ctx context.Context, principal *entity.Principal, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := createConversation(ctx, uow, principal.UserId, req.Title, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("ConversationService", "Conversation created", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"user_id":         principal.UserId.String(),
	})
	s.activity.ConversationCreated(ctx, conversation, "explicit")
	return toConversationResponse(conversation), nil
}

func (s *conversationService) List(ctx context.Context, principal *entity.Principal) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: principal.UserId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, toConversationResponse(c))
	}
	return res, nil
}

func (s *conversationService) Get(ctx context.Context, principal *entity.Principal, conversationId string) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := loadOwnedConversation(ctx, uow, principal, conversationId)
	if err != nil {
		return nil, err
	}
	return toConversationResponse(conversation), nil
}

func (s *conversationService) ListMessages(ctx context.Context, principal *entity.Principal, conversationId string) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := loadOwnedConversation(ctx, uow, principal, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := listMessages(ctx, uow, conversation.Id)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.MessageResponse{
			Id:             m.Id,
			Role:           string(m.Role),
			Content:        m.Content,
			Timestamp:      m.CreatedAt,
			ConversationId: m.ConversationId,
		})
	}
	return res, nil
}

// Delete removes the messages and then the conversation inside one transaction.
func (s *conversationService) Delete(ctx context.Context, principal *entity.Principal, conversationId string) (*dto.DeleteConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := loadOwnedConversation(ctx, uow, principal, conversationId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = uow.Rollback()
		}
	}()

	deletedMessages, err := uow.MessageRepository().DeleteByConversationId(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	rows, err := uow.ConversationRepository().Delete(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperror.Internal("delete conversation", errConversationVanished)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("ConversationService", "Conversation deleted", map[string]interface{}{
		"conversation_id":  conversation.Id.String(),
		"deleted_messages": deletedMessages,
	})
	s.activity.ConversationDeleted(ctx, conversation, deletedMessages)

	return &dto.DeleteConversationResponse{
		ConversationId:  conversation.Id,
		DeletedMessages: deletedMessages,
	}, nil
}

func loadOwnedConversation(ctx context.Context, uow unitofwork.UnitOfWork, principal *entity.Principal, conversationId string) (*entity.Conversation, error) {
	var find access.Finder[*entity.Conversation] = func(ctx context.Context, id uuid.UUID) (*entity.Conversation, bool, error) {
		c, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
		return c, c != nil, err
	}
	return access.LoadOwned(ctx, conversationResource, conversationId, principal.UserId, find)
}

func createConversation(ctx context.Context, uow unitofwork.UnitOfWork, ownerId uuid.UUID, title string, now time.Time) (*entity.Conversation, error) {
	conversation := &entity.Conversation{
		Id:           uuid.New(),
		UserId:       ownerId,
		Title:        title,
		MessageCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// listMessages returns the conversation's messages oldest first. Ties on created_at fall back
// to id so the order is stable.
func listMessages(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]*entity.Message, error) {
	return uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at"},
		specification.OrderBy{Field: "id"},
	)
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:           c.Id,
		Title:        c.Title,
		UserId:       c.UserId,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: c.MessageCount,
	}
}
