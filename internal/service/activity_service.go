package service

import (
	"context"
	"fmt"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/repository/specification"
	"notefiber-todo/internal/repository/unitofwork"
	"notefiber-todo/pkg/events"
	pktNats "notefiber-todo/pkg/nats"

	"github.com/google/uuid"
)

const (
	activityDurable  = "activity-worker"
	activitySubject  = "events.>"
	maxActivityLimit = 100
)

// EventSubscriber is satisfied by pkg/nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler pktNats.EventHandler) error
}

type IActivityService interface {
	Consume(ctx context.Context, subscriber EventSubscriber) error
	Record(ctx context.Context, event events.Event) error
	List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *activityService) Consume(ctx context.Context, subscriber EventSubscriber) error {
	return subscriber.Subscribe(ctx, activitySubject, activityDurable, s.Record)
}

// Record stores one domain event in the activity log.
func (s *activityService) Record(ctx context.Context, event events.Event) error {
	userId, err := uuid.Parse(events.UserID(event))
	if err != nil {
		// Nothing to attribute it to; retrying will not help.
		s.logger.Warn("ActivityService", "Event without user_id skipped", map[string]interface{}{"event_type": event.EventType()})
		return nil
	}

	occurredAt := event.Timestamp()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry := &entity.ActivityLog{
		Id:        uuid.New(),
		UserId:    userId,
		EventType: event.EventType(),
		Metadata:  event.Payload(),
		CreatedAt: occurredAt,
	}
	if err := uow.ActivityRepository().Create(ctx, entry); err != nil {
		return fmt.Errorf("record %s: %w", event.EventType(), err)
	}

	s.logger.Debug("ActivityService", "Activity recorded", map[string]interface{}{
		"event_type": entry.EventType,
		"user_id":    userId.String(),
	})
	return nil
}

func (s *activityService) List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]dto.ActivityResponse, error) {
	if limit <= 0 || limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	logs, err := uow.ActivityRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ActivityResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.ActivityResponse{
			Id:        l.Id,
			EventType: l.EventType,
			Metadata:  l.Metadata,
			CreatedAt: l.CreatedAt,
		})
	}
	return result, nil
}
