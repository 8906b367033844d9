// internal\entity\notebook_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type Notebook struct {
	Id        uuid.UUID
	Name      string
	UserId    uuid.UUID
	SortOrder int
	CreatedAt time.Time
	UpdatedAt *time.Time
}
