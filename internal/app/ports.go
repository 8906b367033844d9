package app

import (
	"context"
	"time"
)

type Account struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

type Notebook struct {
	ID        string
	OwnerID   string
	Name      string
	Order     int
	CreatedAt time.Time
}

type Task struct {
	ID         string
	OwnerID    string
	NotebookID string
	Text       string
	Completed  bool
	CreatedAt  time.Time
}

// AuthProvider owns credentials and the authenticated identity.
// OnStateChange callbacks may run on any goroutine.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (Account, error)
	SignUp(ctx context.Context, email, password string) (Account, error)
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	OnStateChange(fn func(*Account)) (cancel func())
}

// Subscription is a standing live query. Cancel detaches it; no callback
// is delivered by the store after Cancel returns.
type Subscription interface {
	Cancel()
}

// DocumentStore persists accounts, notebooks and tasks. Every method may
// block on the network. Watch callbacks receive the full current result
// set and may run on any goroutine.
type DocumentStore interface {
	PutAccount(ctx context.Context, account Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)

	PutNotebook(ctx context.Context, notebook Notebook) error
	// DeleteNotebook removes the notebook together with its tasks.
	DeleteNotebook(ctx context.Context, id string) error
	WatchNotebooks(ownerID string, fn func([]Notebook)) (Subscription, error)

	PutTask(ctx context.Context, task Task) error
	DeleteTask(ctx context.Context, id string) error
	WatchTasks(notebookID string, fn func([]Task)) (Subscription, error)
}

// LiveNotifier is implemented by stores whose live queries can all be lost
// at once, for example when their connection drops. fn may run on any
// goroutine.
type LiveNotifier interface {
	OnLiveLost(fn func(error)) (cancel func())
}

// UI applies views and shows transient feedback. Confirm must invoke
// onYes on the event loop.
type UI interface {
	Render(View)
	Alert(message string)
	Confirm(prompt string, onYes func())
	Shake()
	Celebrate()
}

// Scheduler separates remote round trips from state mutation. Go runs fn
// off the event loop; Post queues fn onto it.
type Scheduler interface {
	Go(fn func())
	Post(fn func())
}
