package contract

import (
	"context"

	"ai-filevault-be/internal/entity"

	"github.com/google/uuid"
)

type AssistantSettingRepository interface {
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.AssistantSetting, error)
	Upsert(ctx context.Context, setting *entity.AssistantSetting) error
}
