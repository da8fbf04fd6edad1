package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type ConversationResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	UserId       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

type MessageResponse struct {
	Id             uuid.UUID `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationId uuid.UUID `json:"conversation_id"`
}

type DeleteConversationResponse struct {
	ConversationId  uuid.UUID `json:"conversation_id"`
	DeletedMessages int64     `json:"deleted_messages"`
}
