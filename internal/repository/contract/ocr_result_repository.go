package contract

import (
	"context"

	"ai-filevault-be/internal/entity"
)

type OcrResultRepository interface {
	// FindCompletedByFileId returns the completed OCR result for a file,
	// or (nil, nil) when OCR has not finished.
	FindCompletedByFileId(ctx context.Context, fileId int64) (*entity.OcrResult, error)
	// Upsert writes the worker's result, replacing any earlier attempt for
	// the same file.
	Upsert(ctx context.Context, result *entity.OcrResult) error
}
