package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Text       string         `gorm:"type:text;not null"`
	Completed  bool           `gorm:"not null;default:false"`
	NotebookId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time      `gorm:"not null;index"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}
