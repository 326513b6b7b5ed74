package model

import (
	"time"

	"github.com/google/uuid"
)

type UserFile struct {
	Id               int64      `gorm:"primaryKey;autoIncrement"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	OriginalFilename string     `gorm:"type:text;not null;index"`
	S3Key            string     `gorm:"type:text;not null"`
	FileType         string     `gorm:"type:varchar(32);not null;default:'document'"`
	FileSize         int64      `gorm:"not null;default:0"`
	CategoryId       *uuid.UUID `gorm:"type:uuid;index"`
	Category         *FileCategory
	UploadDate       time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (UserFile) TableName() string {
	return "user_files"
}
