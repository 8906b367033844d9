package service

import (
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
)

func toNotebookResponse(n *entity.Notebook) dto.NotebookResponse {
	return dto.NotebookResponse{
		Id:        n.Id,
		UserId:    n.UserId,
		Name:      n.Name,
		Order:     n.SortOrder,
		CreatedAt: n.CreatedAt,
	}
}

func toNotebookResponses(notebooks []*entity.Notebook) []dto.NotebookResponse {
	result := make([]dto.NotebookResponse, 0, len(notebooks))
	for _, n := range notebooks {
		result = append(result, toNotebookResponse(n))
	}
	return result
}

func toTaskResponse(t *entity.Task) dto.TaskResponse {
	return dto.TaskResponse{
		Id:         t.Id,
		UserId:     t.UserId,
		NotebookId: t.NotebookId,
		Text:       t.Text,
		Completed:  t.Completed,
		CreatedAt:  t.CreatedAt,
	}
}

func toTaskResponses(tasks []*entity.Task) []dto.TaskResponse {
	result := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, toTaskResponse(t))
	}
	return result
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		Id:        a.Id,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
