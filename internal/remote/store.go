package remote

import (
	"context"
	"net/url"

	"notefiber-todo/internal/app"
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	fieldUserID     = "user_id"
	fieldNotebookID = "notebook_id"
)

func (c *Client) PutAccount(ctx context.Context, a app.Account) error {
	req := dto.SaveAccountRequest{Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
	return c.do(ctx, fiber.MethodPut, "/api/account/v1/"+url.PathEscape(a.ID), req, nil)
}

// GetAccount returns nil when the account has no profile yet.
func (c *Client) GetAccount(ctx context.Context, id string) (*app.Account, error) {
	var res dto.AccountResponse
	err := c.do(ctx, fiber.MethodGet, "/api/account/v1/"+url.PathEscape(id), nil, &res)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app.Account{
		ID:        res.Id.String(),
		Name:      res.Name,
		Email:     res.Email,
		CreatedAt: res.CreatedAt,
	}, nil
}

func (c *Client) PutNotebook(ctx context.Context, nb app.Notebook) error {
	req := dto.SaveNotebookRequest{Name: nb.Name, Order: nb.Order, CreatedAt: nb.CreatedAt}
	return c.do(ctx, fiber.MethodPut, "/api/notebook/v1/"+url.PathEscape(nb.ID), req, nil)
}

func (c *Client) DeleteNotebook(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/notebook/v1/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PutTask(ctx context.Context, t app.Task) error {
	notebookID, err := uuid.Parse(t.NotebookID)
	if err != nil {
		return apperror.Validation("invalid notebook_id")
	}
	req := dto.SaveTaskRequest{NotebookId: notebookID, Text: t.Text, Completed: t.Completed, CreatedAt: t.CreatedAt}
	return c.do(ctx, fiber.MethodPut, "/api/task/v1/"+url.PathEscape(t.ID), req, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/task/v1/"+url.PathEscape(id), nil, nil)
}

func (c *Client) WatchNotebooks(ownerID string, fn func([]app.Notebook)) (app.Subscription, error) {
	req := dto.LiveRequest{Collection: entity.CollectionNotebooks, Field: fieldUserID, Value: ownerID}
	return c.live.subscribe(req, func(frame dto.LiveFrame) {
		fn(toNotebooks(frame.Notebooks))
	})
}

func (c *Client) WatchTasks(notebookID string, fn func([]app.Task)) (app.Subscription, error) {
	req := dto.LiveRequest{Collection: entity.CollectionTasks, Field: fieldNotebookID, Value: notebookID}
	return c.live.subscribe(req, func(frame dto.LiveFrame) {
		fn(toTasks(frame.Tasks))
	})
}

func toNotebooks(in []dto.NotebookResponse) []app.Notebook {
	out := make([]app.Notebook, len(in))
	for i, nb := range in {
		out[i] = app.Notebook{
			ID:        nb.Id.String(),
			OwnerID:   nb.UserId.String(),
			Name:      nb.Name,
			Order:     nb.Order,
			CreatedAt: nb.CreatedAt,
		}
	}
	return out
}

func toTasks(in []dto.TaskResponse) []app.Task {
	out := make([]app.Task, len(in))
	for i, t := range in {
		out[i] = app.Task{
			ID:         t.Id.String(),
			OwnerID:    t.UserId.String(),
			NotebookID: t.NotebookId.String(),
			Text:       t.Text,
			Completed:  t.Completed,
			CreatedAt:  t.CreatedAt,
		}
	}
	return out
}
