package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index:idx_conversations_user_updated,priority:1"`
	Title        string    `gorm:"type:varchar(200);not null"`
	MessageCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;index:idx_conversations_user_updated,priority:2"`
}

func (Conversation) TableName() string {
	return "conversations"
}
