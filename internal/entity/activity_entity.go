package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	EventType string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
