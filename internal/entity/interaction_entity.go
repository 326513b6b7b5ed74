package entity

import (
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	ConversationId     uuid.UUID
	Prompt             string
	Response           string
	AudioResponseURL   string
	Success            bool
	ReferenceContext   map[string]interface{}
	ReferencedFileId   *int64
	ReferencedFileName string
	ActionType         string
	CreatedAt          time.Time
}
