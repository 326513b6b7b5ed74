package entity

import (
	"time"

	"github.com/google/uuid"
)

type OcrResult struct {
	Id          uuid.UUID
	FileId      int64
	Status      string
	TextContent string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
