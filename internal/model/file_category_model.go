package model

import (
	"time"

	"github.com/google/uuid"
)

type FileCategory struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"type:varchar(128);not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // nil for default categories
	IsDefault bool       `gorm:"not null;default:false"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (FileCategory) TableName() string {
	return "file_categories"
}
