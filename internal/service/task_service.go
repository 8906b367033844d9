package service

import (
	"context"
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

type ITaskService interface {
	GetAll(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]dto.TaskResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.TaskResponse, error)
	Save(ctx context.Context, userId uuid.UUID, req *dto.SaveTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type taskService struct {
	uowFactory     unitofwork.RepositoryFactory
	changes        IChangePublisher
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewTaskService(
	uowFactory unitofwork.RepositoryFactory,
	changes IChangePublisher,
	eventPublisher events.Publisher,
	log logger.ILogger,
) ITaskService {
	return &taskService{
		uowFactory:     uowFactory,
		changes:        changes,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *taskService) GetAll(ctx context.Context, userId uuid.UUID, notebookId uuid.UUID) ([]dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tasks, err := uow.TaskRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

func (s *taskService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.ErrNotFound
	}

	res := toTaskResponse(task)
	return &res, nil
}

// Save creates or replaces a task. The target notebook must belong to the caller.
func (s *taskService) Save(ctx context.Context, userId uuid.UUID, req *dto.SaveTaskRequest) (*dto.TaskResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("text is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if notebook == nil {
		return nil, apperror.New(apperror.ErrNotFound.Status, "notebook not found")
	}

	existing, err := uow.TaskRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserId != userId {
		return nil, apperror.ErrForbidden
	}

	now := time.Now().UTC()
	task := &entity.Task{
		Id:         req.Id,
		Text:       text,
		Completed:  req.Completed,
		NotebookId: req.NotebookId,
		UserId:     userId,
		CreatedAt:  req.CreatedAt,
		UpdatedAt:  &now,
	}
	if existing != nil {
		task.CreatedAt = existing.CreatedAt
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}

	if err := uow.TaskRepository().Save(ctx, task); err != nil {
		return nil, err
	}

	s.changes.TasksChanged(ctx, userId, task.NotebookId)
	if existing != nil && existing.NotebookId != task.NotebookId {
		s.changes.TasksChanged(ctx, userId, existing.NotebookId)
	}
	if task.Completed && (existing == nil || !existing.Completed) {
		publishEvent(ctx, s.logger, s.eventPublisher, events.TaskCompleted, map[string]interface{}{
			"user_id":     userId.String(),
			"task_id":     task.Id.String(),
			"notebook_id": task.NotebookId.String(),
		})
	}

	res := toTaskResponse(task)
	return &res, nil
}

// Delete is idempotent: deleting a task that is already gone succeeds.
func (s *taskService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	task, err := uow.TaskRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	if task.UserId != userId {
		return apperror.ErrForbidden
	}

	if err := uow.TaskRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.changes.TasksChanged(ctx, userId, task.NotebookId)
	return nil
}
