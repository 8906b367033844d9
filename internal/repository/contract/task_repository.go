package contract

import (
	"context"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/repository/specification"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Save(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) (int64, error)
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error // Hard delete all
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
