package app

import (
	"context"
	"time"

	"notefiber-todo/internal/pkg/logger"

	"github.com/google/uuid"
)

const msgLiveLost = "Lost connection to the server. Sign in again to see new changes."

type Deps struct {
	Auth      AuthProvider
	Store     DocumentStore
	UI        UI
	Scheduler Scheduler
	Logger    logger.ILogger
	Now       func() time.Time
}

// App wires the session controller and both stores around one State.
// Every exported method must be called on the event loop.
type App struct {
	auth   AuthProvider
	store  DocumentStore
	ui     UI
	sched  Scheduler
	logger logger.ILogger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	state State

	Session   *SessionController
	Notebooks *NotebookStore
	Tasks     *TaskStore

	stopObserver func()
	stopLive     func()
}

func New(d Deps) *App {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		auth:   d.Auth,
		store:  d.Store,
		ui:     d.UI,
		sched:  d.Scheduler,
		logger: d.Logger,
		now:    d.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	a.state.Auth.Open = true
	a.Tasks = &TaskStore{app: a}
	a.Notebooks = &NotebookStore{app: a}
	a.Session = &SessionController{app: a}
	return a
}

// Start renders the anonymous layout and begins observing the auth provider.
func (a *App) Start() {
	a.render()
	a.stopObserver = a.auth.OnStateChange(func(acct *Account) {
		var snapshot *Account
		if acct != nil {
			cp := *acct
			snapshot = &cp
		}
		a.sched.Post(func() { a.Session.handleAuthState(snapshot) })
	})
	if ln, ok := a.store.(LiveNotifier); ok {
		a.stopLive = ln.OnLiveLost(func(err error) {
			a.sched.Post(func() { a.liveLost(err) })
		})
	}
}

// Stop detaches every live query and aborts in-flight remote calls.
func (a *App) Stop() {
	if a.stopObserver != nil {
		a.stopObserver()
		a.stopObserver = nil
	}
	if a.stopLive != nil {
		a.stopLive()
		a.stopLive = nil
	}
	a.Tasks.detach()
	a.Notebooks.detach()
	a.cancel()
}

// State returns a copy of the current state.
func (a *App) State() State {
	st := a.state
	st.Notebooks = append([]Notebook(nil), a.state.Notebooks...)
	st.Tasks = append([]Task(nil), a.state.Tasks...)
	return st
}

func (a *App) View() View {
	return Project(&a.state)
}

func (a *App) render() {
	a.ui.Render(Project(&a.state))
}

// liveLost runs after the store dropped every live query. The lists on
// screen stop updating, so the user is told instead of left looking at
// stale data.
func (a *App) liveLost(err error) {
	if a.state.Session.Account == nil {
		return
	}
	a.logger.Warn("App", "Live updates stopped", map[string]interface{}{"error": err.Error()})
	a.Tasks.detach()
	a.Notebooks.detach()
	a.ui.Alert(msgLiveLost)
}

// current reports whether a continuation started under epoch still applies.
func (a *App) current(epoch uint64) bool {
	return epoch == a.state.Session.epoch
}

// newID returns a time-ordered UUIDv7 so that ids created in the same
// millisecond by different clients still differ.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
