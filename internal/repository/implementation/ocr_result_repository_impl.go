package implementation

import (
	"context"
	"errors"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/mapper"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OcrResultRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewOcrResultRepository(db *gorm.DB) contract.OcrResultRepository {
	return &OcrResultRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *OcrResultRepositoryImpl) FindCompletedByFileId(ctx context.Context, fileId int64) (*entity.OcrResult, error) {
	var m model.OcrResult
	err := r.db.WithContext(ctx).
		Where("file_id = ? AND status = ?", fileId, model.OcrStatusCompleted).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.OcrResultToEntity(&m), nil
}

func (r *OcrResultRepositoryImpl) Upsert(ctx context.Context, result *entity.OcrResult) error {
	m := r.mapper.OcrResultToModel(result)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "file_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
}
