package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InConversation scopes interactions to one conversation thread.
type InConversation struct {
	ConversationID uuid.UUID
}

func (s InConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// CreatedBetween filters interactions by an optional date window.
type CreatedBetween struct {
	Start *time.Time
	End   *time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.Start != nil {
		db = db.Where("created_at >= ?", *s.Start)
	}
	if s.End != nil {
		db = db.Where("created_at <= ?", *s.End)
	}
	return db
}

// PromptOrResponseContains matches the history keyword filter.
type PromptOrResponseContains struct {
	Keyword string
}

func (s PromptOrResponseContains) Apply(db *gorm.DB) *gorm.DB {
	like := "%" + s.Keyword + "%"
	return db.Where("prompt ILIKE ? OR response ILIKE ?", like, like)
}
