package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveTaskRequest struct {
	Id         uuid.UUID `json:"-"`
	NotebookId uuid.UUID `json:"notebook_id" validate:"required"`
	Text       string    `json:"text" validate:"required"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}

type TaskResponse struct {
	Id         uuid.UUID `json:"id"`
	UserId     uuid.UUID `json:"user_id"`
	NotebookId uuid.UUID `json:"notebook_id"`
	Text       string    `json:"text"`
	Completed  bool      `json:"completed"`
	CreatedAt  time.Time `json:"created_at"`
}
