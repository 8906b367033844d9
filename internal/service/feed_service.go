package service

import (
	"context"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/repository/specification"
	"notefiber-todo/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	FieldUserID     = "user_id"
	FieldNotebookID = "notebook_id"
)

// IFeedService evaluates live queries. A snapshot is always the full current result set.
type IFeedService interface {
	Validate(userId uuid.UUID, req dto.LiveRequest) error
	Snapshot(ctx context.Context, userId uuid.UUID, req dto.LiveRequest) (*dto.LiveFrame, error)
}

type feedService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFeedService(uowFactory unitofwork.RepositoryFactory) IFeedService {
	return &feedService{uowFactory: uowFactory}
}

// Validate checks the query shape and that a notebooks query targets the caller.
func (s *feedService) Validate(userId uuid.UUID, req dto.LiveRequest) error {
	if req.SubId == "" {
		return apperror.Validation("sub_id is required")
	}
	switch req.Collection {
	case entity.CollectionNotebooks:
		if req.Field != FieldUserID {
			return apperror.Validation("notebooks can only be filtered by user_id")
		}
		if req.Value != userId.String() {
			return apperror.ErrForbidden
		}
	case entity.CollectionTasks:
		if req.Field != FieldNotebookID {
			return apperror.Validation("tasks can only be filtered by notebook_id")
		}
		if _, err := uuid.Parse(req.Value); err != nil {
			return apperror.Validation("invalid notebook_id")
		}
	default:
		return apperror.Validation("unknown collection " + req.Collection)
	}
	return nil
}

func (s *feedService) Snapshot(ctx context.Context, userId uuid.UUID, req dto.LiveRequest) (*dto.LiveFrame, error) {
	if err := s.Validate(userId, req); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	frame := &dto.LiveFrame{Type: dto.LiveTypeSnapshot, SubId: req.SubId}

	if req.Collection == entity.CollectionNotebooks {
		notebooks, err := uow.NotebookRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.NotebookDisplayOrder{},
		)
		if err != nil {
			return nil, err
		}
		frame.Notebooks = toNotebookResponses(notebooks)
		return frame, nil
	}

	notebookId := uuid.MustParse(req.Value)
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: notebookId})
	if err != nil {
		return nil, err
	}
	// A deleted notebook has no tasks left; report that instead of an error.
	if notebook == nil {
		frame.Tasks = []dto.TaskResponse{}
		return frame, nil
	}
	if notebook.UserId != userId {
		return nil, apperror.ErrForbidden
	}

	tasks, err := uow.TaskRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	frame.Tasks = toTaskResponses(tasks)
	return frame, nil
}

// Matches reports whether a change can alter the result of a live query.
func Matches(req dto.LiveRequest, change entity.Change) bool {
	if req.Collection != change.Collection {
		return false
	}
	switch change.Collection {
	case entity.CollectionNotebooks:
		return req.Value == change.UserId.String()
	case entity.CollectionTasks:
		return req.Value == change.NotebookId.String()
	}
	return false
}
