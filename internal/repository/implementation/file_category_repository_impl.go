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

type FileCategoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewFileCategoryRepository(db *gorm.DB) contract.FileCategoryRepository {
	return &FileCategoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *FileCategoryRepositoryImpl) Create(ctx context.Context, category *entity.FileCategory) error {
	m := r.mapper.FileCategoryToModel(category)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*category = *r.mapper.FileCategoryToEntity(m)
	return nil
}

func (r *FileCategoryRepositoryImpl) FindVisibleByName(ctx context.Context, userId uuid.UUID, name string) (*entity.FileCategory, error) {
	var m model.FileCategory
	query := specification.VisibleCategoriesFor{UserID: userId}.Apply(r.db.WithContext(ctx))
	query = specification.CategoryNameEquals{Name: name}.Apply(query)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileCategoryToEntity(&m), nil
}

func (r *FileCategoryRepositoryImpl) FindAllVisible(ctx context.Context, userId uuid.UUID) ([]*entity.FileCategory, error) {
	var models []*model.FileCategory
	query := specification.VisibleCategoriesFor{UserID: userId}.Apply(r.db.WithContext(ctx))
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FileCategory, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FileCategoryToEntity(m)
	}
	return entities, nil
}
