package contract

import (
	"context"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/repository/specification"
)

type ActivityRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error)
}
