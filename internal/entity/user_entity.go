// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Account is the public profile created at sign-up and read-only afterwards.
type Account struct {
	Id        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}
