package contract

import (
	"context"

	"ai-filevault-be/internal/entity"

	"github.com/google/uuid"
)

type FileCategoryRepository interface {
	Create(ctx context.Context, category *entity.FileCategory) error
	// FindVisibleByName matches the user's own categories and the defaults,
	// case-insensitively. Absence is (nil, nil).
	FindVisibleByName(ctx context.Context, userId uuid.UUID, name string) (*entity.FileCategory, error)
	FindAllVisible(ctx context.Context, userId uuid.UUID) ([]*entity.FileCategory, error)
}
