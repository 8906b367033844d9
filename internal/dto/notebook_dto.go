package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveNotebookRequest struct {
	Id        uuid.UUID `json:"-"`
	Name      string    `json:"name" validate:"required,max=255"`
	Order     int       `json:"order" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
}

type NotebookResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

type DeleteNotebookResponse struct {
	Id           uuid.UUID `json:"id"`
	DeletedTasks int64     `json:"deleted_tasks"`
}
