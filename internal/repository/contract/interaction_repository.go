package contract

import (
	"context"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/repository/specification"

	"github.com/google/uuid"
)

// InteractionRepository is append-only from the orchestrator's point of view:
// turns are created once and never updated or deleted.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	// FindRecent returns up to limit interactions for the conversation,
	// newest first.
	FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error)
}
