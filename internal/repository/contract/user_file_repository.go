package contract

import (
	"context"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserFileRepository interface {
	Create(ctx context.Context, file *entity.UserFile) error
	Update(ctx context.Context, file *entity.UserFile) error
	// Delete is a hard delete; assistant-driven deletion is permanent.
	Delete(ctx context.Context, userId uuid.UUID, id int64) error
	FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error)
	FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error)
	// SearchByNameOrContent matches the keyword against filenames and
	// completed OCR text, newest uploads first.
	SearchByNameOrContent(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.UserFile, error)
	SumFileSizes(ctx context.Context, userId uuid.UUID) (int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
