package implementation

import (
	"context"
	"errors"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/mapper"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssistantSettingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InteractionMapper
}

func NewAssistantSettingRepository(db *gorm.DB) contract.AssistantSettingRepository {
	return &AssistantSettingRepositoryImpl{
		db:     db,
		mapper: mapper.NewInteractionMapper(),
	}
}

func (r *AssistantSettingRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.AssistantSetting, error) {
	var m model.AssistantSetting
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AssistantSettingToEntity(&m), nil
}

func (r *AssistantSettingRepositoryImpl) Upsert(ctx context.Context, setting *entity.AssistantSetting) error {
	m := r.mapper.AssistantSettingToModel(setting)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*setting = *r.mapper.AssistantSettingToEntity(m)
	return nil
}
