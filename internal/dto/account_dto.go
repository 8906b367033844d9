package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveAccountRequest struct {
	Id        uuid.UUID `json:"-"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
