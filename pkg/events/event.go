package events

import (
	"context"
	"sync"
	"time"
)

// Event types published on the domain bus.
const (
	AccountCreated  = "ACCOUNT_CREATED"
	AccountDeleted  = "ACCOUNT_DELETED"
	UserLogin       = "USER_LOGIN"
	UserLogout      = "USER_LOGOUT"
	NotebookCreated = "NOTEBOOK_CREATED"
	NotebookDeleted = "NOTEBOOK_DELETED"
	TaskCompleted   = "TASK_COMPLETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher is satisfied by the NATS publisher and by NopPublisher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// UserID returns the "user_id" payload entry, or "" when absent.
func UserID(e Event) string {
	id, _ := e.Payload()["user_id"].(string)
	return id
}

// NopPublisher drops events. Used when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists recorded event types in publish order.
func (r *Recorder) Types() []string {
	recorded := r.Events()
	types := make([]string, 0, len(recorded))
	for _, e := range recorded {
		types = append(types, e.EventType())
	}
	return types
}
