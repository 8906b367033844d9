package specification

import (
	"notefiber-todo/internal/repository/scope"

	"gorm.io/gorm"
)

type NotebookDisplayOrder struct{}

func (s NotebookDisplayOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByTabPosition)
}
