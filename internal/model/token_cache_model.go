package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TokenCache struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	UserEmail string         `gorm:"type:varchar(255);not null;index"`
	Cache     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (TokenCache) TableName() string {
	return "token_caches"
}
