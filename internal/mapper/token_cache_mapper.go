package mapper

import (
	"encoding/json"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/model"

	"gorm.io/datatypes"
)

type TokenCacheMapper struct{}

func NewTokenCacheMapper() *TokenCacheMapper {
	return &TokenCacheMapper{}
}

func (m *TokenCacheMapper) ToEntity(tc *model.TokenCache) *entity.TokenCache {
	if tc == nil {
		return nil
	}

	return &entity.TokenCache{
		Id:        tc.Id,
		AccountID: tc.AccountID,
		UserEmail: tc.UserEmail,
		Cache:     json.RawMessage(tc.Cache),
		UpdatedAt: tc.UpdatedAt,
	}
}

func (m *TokenCacheMapper) ToModel(tc *entity.TokenCache) *model.TokenCache {
	if tc == nil {
		return nil
	}

	return &model.TokenCache{
		Id:        tc.Id,
		AccountID: tc.AccountID,
		UserEmail: tc.UserEmail,
		Cache:     datatypes.JSON(tc.Cache),
		UpdatedAt: tc.UpdatedAt,
	}
}
