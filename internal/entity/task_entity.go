package entity

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	Id         uuid.UUID
	Text       string
	Completed  bool
	NotebookId uuid.UUID
	UserId     uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
