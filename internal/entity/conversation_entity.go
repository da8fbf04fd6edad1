package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Conversation) OwnerId() uuid.UUID {
	return c.UserId
}
