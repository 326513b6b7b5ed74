package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	OcrStatusPending   = "pending"
	OcrStatusCompleted = "completed"
	OcrStatusFailed    = "failed"
)

// OcrResult holds the extracted text for one file, written by the OCR
// worker and read by the summarize and search paths.
type OcrResult struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileId      int64     `gorm:"not null;uniqueIndex"`
	Status      string    `gorm:"type:varchar(32);not null;default:'pending'"`
	TextContent string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OcrResult) TableName() string {
	return "ocr_results"
}
