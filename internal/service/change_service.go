package service

import (
	"context"
	"encoding/json"

	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IChangePublisher announces committed writes so live queries can be re-run.
type IChangePublisher interface {
	NotebooksChanged(ctx context.Context, userId uuid.UUID)
	TasksChanged(ctx context.Context, userId, notebookId uuid.UUID)
}

type changePublisher struct {
	publisher message.Publisher
	topicName string
	logger    logger.ILogger
}

func NewChangePublisher(publisher message.Publisher, topicName string, log logger.ILogger) IChangePublisher {
	return &changePublisher{
		publisher: publisher,
		topicName: topicName,
		logger:    log,
	}
}

func (p *changePublisher) NotebooksChanged(ctx context.Context, userId uuid.UUID) {
	p.publish(ctx, entity.Change{Collection: entity.CollectionNotebooks, UserId: userId})
}

func (p *changePublisher) TasksChanged(ctx context.Context, userId, notebookId uuid.UUID) {
	p.publish(ctx, entity.Change{Collection: entity.CollectionTasks, UserId: userId, NotebookId: notebookId})
}

// publish runs after commit; a lost change only delays a snapshot, so errors are logged.
func (p *changePublisher) publish(ctx context.Context, change entity.Change) {
	payload, err := json.Marshal(change)
	if err != nil {
		p.logger.Error("ChangePublisher", "Failed to marshal change", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("ChangePublisher", "Failed to publish change", map[string]interface{}{
			"error":      err.Error(),
			"collection": change.Collection,
		})
	}
}

// ChangeDispatcher delivers a change to the live-query subscribers it affects.
type ChangeDispatcher interface {
	Dispatch(change entity.Change)
}

type IChangeConsumer interface {
	Consume(ctx context.Context) error
}

type changeConsumer struct {
	subscriber message.Subscriber
	topicName  string
	dispatcher ChangeDispatcher
	logger     logger.ILogger
}

func NewChangeConsumer(
	subscriber message.Subscriber,
	topicName string,
	dispatcher ChangeDispatcher,
	log logger.ILogger,
) IChangeConsumer {
	return &changeConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		dispatcher: dispatcher,
		logger:     log,
	}
}

func (cs *changeConsumer) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *changeConsumer) processMessage(msg *message.Message) {
	// Invalid payloads are acked so they are not redelivered forever.
	defer msg.Ack()

	var change entity.Change
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		cs.logger.Warn("ChangeConsumer", "Dropping malformed change", map[string]interface{}{"error": err.Error()})
		return
	}
	cs.dispatcher.Dispatch(change)
}
