package implementation

import (
	"context"
	"errors"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/mapper"
	"file-concierge-be/internal/model"
	"file-concierge-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TokenCacheMapper
}

func NewTokenCacheRepository(db *gorm.DB) contract.TokenCacheRepository {
	return &TokenCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewTokenCacheMapper(),
	}
}

func (r *TokenCacheRepositoryImpl) Upsert(ctx context.Context, cache *entity.TokenCache) error {
	m := r.mapper.ToModel(cache)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_email", "cache", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*cache = *r.mapper.ToEntity(m)
	return nil
}

func (r *TokenCacheRepositoryImpl) FindByAccountID(ctx context.Context, accountID string) (*entity.TokenCache, error) {
	var m model.TokenCache
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TokenCacheRepositoryImpl) DeleteByAccountID(ctx context.Context, accountID string) error {
	return r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&model.TokenCache{}).Error
}
