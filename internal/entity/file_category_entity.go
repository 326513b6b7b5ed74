package entity

import (
	"time"

	"github.com/google/uuid"
)

type FileCategory struct {
	Id        uuid.UUID
	Name      string
	CreatedBy *uuid.UUID
	IsDefault bool
	CreatedAt time.Time
}
