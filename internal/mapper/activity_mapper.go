package mapper

import (
	"encoding/json"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/model"

	"gorm.io/datatypes"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ToEntity(a *model.ActivityLog) *entity.ActivityLog {
	if a == nil {
		return nil
	}
	meta := make(map[string]interface{})
	if len(a.Metadata) > 0 {
		// Corrupt metadata should not hide the row itself.
		_ = json.Unmarshal(a.Metadata, &meta)
	}
	return &entity.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: a.EventType,
		Metadata:  meta,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityMapper) ToModel(a *entity.ActivityLog) (*model.ActivityLog, error) {
	if a == nil {
		return nil, nil
	}
	raw, err := json.Marshal(a.Metadata)
	if err != nil {
		return nil, err
	}
	return &model.ActivityLog{
		Id:        a.Id,
		UserId:    a.UserId,
		EventType: a.EventType,
		Metadata:  datatypes.JSON(raw),
		CreatedAt: a.CreatedAt,
	}, nil
}

func (m *ActivityMapper) ToEntities(logs []*model.ActivityLog) []*entity.ActivityLog {
	entities := make([]*entity.ActivityLog, len(logs))
	for i, l := range logs {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
