package mapper

import (
	"time"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/model"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		u := t.UpdatedAt
		updatedAt = &u
	}

	return &entity.Task{
		Id:         t.Id,
		Text:       t.Text,
		Completed:  t.Completed,
		NotebookId: t.NotebookId,
		UserId:     t.UserId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *TaskMapper) ToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Task{
		Id:         t.Id,
		Text:       t.Text,
		Completed:  t.Completed,
		NotebookId: t.NotebookId,
		UserId:     t.UserId,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *TaskMapper) ToEntities(tasks []*model.Task) []*entity.Task {
	entities := make([]*entity.Task, len(tasks))
	for i, t := range tasks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
