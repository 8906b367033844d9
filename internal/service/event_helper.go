package service

import (
	"context"
	"time"

	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/pkg/events"
)

const eventPublishTimeout = 2 * time.Second

// publishEvent never fails the request that caused the event.
func publishEvent(ctx context.Context, log logger.ILogger, publisher events.Publisher, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()

	if err := publisher.Publish(pubCtx, events.New(eventType, payload)); err != nil {
		log.Warn("Events", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
