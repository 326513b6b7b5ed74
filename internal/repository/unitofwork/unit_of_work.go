package unitofwork

import (
	"context"

	"ai-filevault-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserFileRepository() contract.UserFileRepository
	FileCategoryRepository() contract.FileCategoryRepository
	OcrResultRepository() contract.OcrResultRepository
	InteractionRepository() contract.InteractionRepository
	AssistantSettingRepository() contract.AssistantSettingRepository
}
