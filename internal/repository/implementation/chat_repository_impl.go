package implementation

import (
	"context"
	"errors"

	"file-concierge-be/internal/entity"
	"file-concierge-be/internal/mapper"
	"file-concierge-be/internal/model"
	"file-concierge-be/internal/repository/contract"
	"file-concierge-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ChatToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) Ensure(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ChatToModel(chat)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, chatID string) error {
	return r.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&model.Chat{}).Error
}

// DeleteOldestBeyond removes a user's chats past the newest `keep`, returning
// the ids that were removed so callers can cascade message deletion.
func (r *ChatRepositoryImpl) DeleteOldestBeyond(ctx context.Context, userEmail string, keep int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Chat{}).
		Where("user_email = ?", userEmail).
		Order("created_at DESC").
		Offset(keep).
		Limit(-1).
		Pluck("chat_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := r.db.WithContext(ctx).Where("chat_id IN ?", ids).Delete(&model.Chat{}).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	var models []*model.Chat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Chat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatToEntity(m)
	}
	return entities, nil
}

func (r *ChatRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Chat{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
