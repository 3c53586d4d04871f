package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatID    string    `gorm:"type:varchar(64);not null;index"`
	UserEmail string    `gorm:"type:varchar(255);not null;index"`
	Role      string    `gorm:"type:varchar(50);not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"` // Indexed for the age-based purge
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
