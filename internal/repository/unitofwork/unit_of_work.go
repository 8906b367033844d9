package unitofwork

import (
	"context"

	"notefiber-todo/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AccountRepository() contract.AccountRepository
	NotebookRepository() contract.NotebookRepository
	TaskRepository() contract.TaskRepository
	ActivityRepository() contract.ActivityRepository
}
