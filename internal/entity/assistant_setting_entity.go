package entity

import (
	"time"

	"github.com/google/uuid"
)

type AssistantSetting struct {
	UserId         uuid.UUID
	VoiceType      string
	Language       string
	ResponseLength string
	IncludeAudio   bool
	UpdatedAt      *time.Time
}
