package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Interaction is one immutable assistant turn. Rows are only ever appended;
// history reads order by created_at within a conversation.
type Interaction struct {
	Id                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId             uuid.UUID          `gorm:"type:uuid;not null;index"`
	ConversationId     uuid.UUID          `gorm:"type:uuid;not null;index"`
	Prompt             string             `gorm:"type:text;not null"`
	Response           string             `gorm:"type:text;not null"`
	AudioResponseURL   string             `gorm:"type:text"`
	Success            bool               `gorm:"not null;default:false"`
	ReferenceContext   datatypes.JSONMap  `gorm:"type:jsonb"`
	ReferencedFileId   *int64             `gorm:"index"`
	ReferencedFileName string             `gorm:"type:text"`
	ActionType         string             `gorm:"type:varchar(64)"`
	CreatedAt          time.Time          `gorm:"autoCreateTime;index"`
}

func (Interaction) TableName() string {
	return "assistant_interactions"
}
