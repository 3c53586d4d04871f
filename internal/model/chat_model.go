package model

import (
	"time"
)

type Chat struct {
	ChatID    string    `gorm:"type:varchar(64);primaryKey"`
	UserEmail string    `gorm:"type:varchar(255);not null;index"` // Owner scoping for retention and listing
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Chat) TableName() string {
	return "chats"
}
