package implementation

import (
	"context"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/mapper"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/repository/contract"
	"ai-filevault-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InteractionMapper
}

func NewInteractionRepository(db *gorm.DB) contract.InteractionRepository {
	return &InteractionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInteractionMapper(),
	}
}

func (r *InteractionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.Interaction) error {
	m := r.mapper.InteractionToModel(interaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*interaction = *r.mapper.InteractionToEntity(m)
	return nil
}

func (r *InteractionRepositoryImpl) FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	return r.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.InConversation{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (r *InteractionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	var models []*model.Interaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Interaction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.InteractionToEntity(m)
	}
	return entities, nil
}
