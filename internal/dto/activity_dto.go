package dto

import (
	"time"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	Id        uuid.UUID              `json:"id"`
	EventType string                 `json:"event_type"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
