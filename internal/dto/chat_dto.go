package dto

import "github.com/google/uuid"

type AskRequest struct {
	Message        string `json:"message" validate:"required,min=1,max=1000"`
	ConversationId string `json:"conversation_id,omitempty"`
}

type AskResponse struct {
	Response       string    `json:"response"`
	ConversationId uuid.UUID `json:"conversation_id"`
	MessageId      uuid.UUID `json:"message_id"`
}
