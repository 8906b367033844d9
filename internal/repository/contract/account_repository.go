package contract

import (
	"context"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/repository/specification"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Save(ctx context.Context, account *entity.Account) error
	DeleteUnscoped(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)
}
