// FILE: internal/service/notebook_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/repository/specification"
	"notefiber-todo/internal/repository/unitofwork"
	"notefiber-todo/pkg/events"

	"github.com/google/uuid"
)

type INotebookService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]dto.NotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNotebookResponse, error)
}

type notebookService struct {
	uowFactory     unitofwork.RepositoryFactory
	changes        IChangePublisher
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewNotebookService(
	uowFactory unitofwork.RepositoryFactory,
	changes IChangePublisher,
	eventPublisher events.Publisher,
	log logger.ILogger,
) INotebookService {
	return &notebookService{
		uowFactory:     uowFactory,
		changes:        changes,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (c *notebookService) GetAll(ctx context.Context, userId uuid.UUID) ([]dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotebookDisplayOrder{},
	)
	if err != nil {
		return nil, err
	}
	return toNotebookResponses(notebooks), nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.ErrNotFound
	}

	res := toNotebookResponse(notebook)
	return &res, nil
}

// Save creates or replaces the notebook with the client-chosen id.
func (c *notebookService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveNotebookRequest) (*dto.NotebookResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserId != userId {
		return nil, apperror.ErrForbidden
	}

	now := time.Now().UTC()
	notebook := &entity.Notebook{
		Id:        req.Id,
		Name:      name,
		UserId:    userId,
		SortOrder: req.Order,
		CreatedAt: req.CreatedAt,
		UpdatedAt: &now,
	}
	if existing != nil {
		notebook.CreatedAt = existing.CreatedAt
	}
	if notebook.CreatedAt.IsZero() {
		notebook.CreatedAt = now
	}

	if err := uow.NotebookRepository().Save(ctx, notebook); err != nil {
		return nil, err
	}

	c.changes.NotebooksChanged(ctx, userId)
	if existing == nil {
		publishEvent(ctx, c.logger, c.eventPublisher, events.NotebookCreated, map[string]interface{}{
			"user_id":     userId.String(),
			"notebook_id": notebook.Id.String(),
			"name":        notebook.Name,
		})
	}

	res := toNotebookResponse(notebook)
	return &res, nil
}

// Delete removes the notebook and all its tasks atomically. The last notebook
// of an account cannot be deleted.
func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DeleteNotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.ErrNotFound
	}

	count, err := uow.NotebookRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if count <= 1 {
		return nil, apperror.ErrLastNotebook
	}

	deletedTasks, err := uow.TaskRepository().DeleteByNotebookId(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete tasks of notebook %s: %w", id, err)
	}
	if err := uow.NotebookRepository().Delete(ctx, id); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.changes.NotebooksChanged(ctx, userId)
	c.changes.TasksChanged(ctx, userId, id)
	publishEvent(ctx, c.logger, c.eventPublisher, events.NotebookDeleted, map[string]interface{}{
		"user_id":       userId.String(),
		"notebook_id":   id.String(),
		"deleted_tasks": deletedTasks,
	})

	return &dto.DeleteNotebookResponse{Id: id, DeletedTasks: deletedTasks}, nil
}
