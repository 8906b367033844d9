package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Account) TableName() string {
	return "accounts"
}
