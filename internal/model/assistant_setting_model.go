package model

import (
	"time"

	"github.com/google/uuid"
)

type AssistantSetting struct {
	UserId         uuid.UUID `gorm:"type:uuid;primaryKey"`
	VoiceType      string    `gorm:"type:varchar(32);not null;default:'nova'"`
	Language       string    `gorm:"type:varchar(8);not null;default:'en'"`
	ResponseLength string    `gorm:"type:varchar(16);not null;default:'concise'"`
	IncludeAudio   bool      `gorm:"not null;default:true"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (AssistantSetting) TableName() string {
	return "assistant_settings"
}
