package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserFile struct {
	Id               int64
	UserId           uuid.UUID
	OriginalFilename string
	S3Key            string
	FileType         string
	FileSize         int64
	CategoryId       *uuid.UUID
	CategoryName     string
	UploadDate       time.Time
	UpdatedAt        *time.Time
}
