package implementation

import (
	"context"
	"errors"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/mapper"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/repository/contract"
	"ai-filevault-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewUserFileRepository(db *gorm.DB) contract.UserFileRepository {
	return &UserFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *UserFileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserFileRepositoryImpl) Create(ctx context.Context, file *entity.UserFile) error {
	m := r.mapper.UserFileToModel(file)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.UserFileToEntity(m)
	return nil
}

func (r *UserFileRepositoryImpl) Update(ctx context.Context, file *entity.UserFile) error {
	m := r.mapper.UserFileToModel(file)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*file = *r.mapper.UserFileToEntity(m)
	return nil
}

func (r *UserFileRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID, id int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.UserFile{}, id).Error
}

func (r *UserFileRepositoryImpl) FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error) {
	return r.findOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFileID{ID: id},
	)
}

func (r *UserFileRepositoryImpl) FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error) {
	return r.findOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.FilenameEquals{Name: name},
	)
}

func (r *UserFileRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.UserFile, error) {
	var m model.UserFile
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Category"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserFileToEntity(&m), nil
}

func (r *UserFileRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error) {
	return r.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "upload_date", Desc: true},
	)
}

func (r *UserFileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error) {
	var models []*model.UserFile
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Category"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserFile, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UserFileToEntity(m)
	}
	return entities, nil
}

func (r *UserFileRepositoryImpl) SearchByNameOrContent(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.UserFile, error) {
	like := "%" + keyword + "%"
	ocrSubquery := r.db.Table("ocr_results").
		Select("file_id").
		Where("status = ? AND text_content ILIKE ?", model.OcrStatusCompleted, like)

	var models []*model.UserFile
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userId).
		Where("original_filename ILIKE ? OR id IN (?)", like, ocrSubquery).
		Order("upload_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.UserFile, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UserFileToEntity(m)
	}
	return entities, nil
}

func (r *UserFileRepositoryImpl) SumFileSizes(ctx context.Context, userId uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.UserFile{}).
		Where("user_id = ?", userId).
		Select("COALESCE(SUM(file_size), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *UserFileRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UserFile{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
