package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/repository/memory"
	"notefiber-todo/internal/repository/unitofwork"
	"notefiber-todo/internal/testutil"
	"notefiber-todo/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedChanges struct {
	mu      sync.Mutex
	changes []entity.Change
}

func (r *recordedChanges) NotebooksChanged(_ context.Context, userId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, entity.Change{Collection: entity.CollectionNotebooks, UserId: userId})
}

func (r *recordedChanges) TasksChanged(_ context.Context, userId, notebookId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, entity.Change{Collection: entity.CollectionTasks, UserId: userId, NotebookId: notebookId})
}

func (r *recordedChanges) all() []entity.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Change(nil), r.changes...)
}

type mailRecorder struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *mailRecorder) SendWelcome(toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

func (m *mailRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// logRecorder keeps "module: message" for every warning.
type logRecorder struct {
	mu    sync.Mutex
	warns []string
}

func (l *logRecorder) Debug(string, string, map[string]interface{}) {}
func (l *logRecorder) Info(string, string, map[string]interface{})  {}
func (l *logRecorder) Error(string, string, map[string]interface{}) {}
func (l *logRecorder) Sync() error                                  { return nil }

func (l *logRecorder) Warn(module, message string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, module+": "+message)
}

func (l *logRecorder) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.warns...)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("nats: no responders available")
}

type fixture struct {
	uow       unitofwork.RepositoryFactory
	changes   *recordedChanges
	events    *events.Recorder
	mail      *mailRecorder
	logs      *logRecorder
	cache     *memory.AccountCache
	auth      IAuthService
	accounts  IAccountService
	notebooks INotebookService
	tasks     ITaskService
	feed      IFeedService
	activity  IActivityService
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		uow:     testutil.NewFactory(t),
		changes: &recordedChanges{},
		events:  &events.Recorder{},
		mail:    &mailRecorder{},
		logs:    &logRecorder{},
		cache:   memory.NewAccountCache(time.Minute),
	}
	issuer := serverutils.NewTokenIssuer("test-secret", time.Hour)
	f.auth = NewAuthService(f.uow, issuer, f.cache, f.changes, f.events, f.logs)
	f.accounts = NewAccountService(f.uow, f.cache, f.mail, f.logs)
	f.notebooks = NewNotebookService(f.uow, f.changes, f.events, f.logs)
	f.tasks = NewTaskService(f.uow, f.changes, f.events, f.logs)
	f.feed = NewFeedService(f.uow)
	f.activity = NewActivityService(f.uow, logger.NewNopLogger())
	return f
}

func (f *fixture) register(t *testing.T, email string) uuid.UUID {
	res, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Email: email, Password: "secret1"})
	require.NoError(t, err)
	return res.User.Id
}

func (f *fixture) notebook(t *testing.T, userId uuid.UUID, name string, order int) uuid.UUID {
	id := uuid.Must(uuid.NewV7())
	_, err := f.notebooks.Save(context.Background(), userId, &dto.SaveNotebookRequest{Id: id, Name: name, Order: order})
	require.NoError(t, err)
	return id
}

func (f *fixture) task(t *testing.T, userId, notebookId uuid.UUID, text string) uuid.UUID {
	id := uuid.Must(uuid.NewV7())
	_, err := f.tasks.Save(context.Background(), userId, &dto.SaveTaskRequest{Id: id, NotebookId: notebookId, Text: text})
	require.NoError(t, err)
	return id
}

func TestAuthRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, &dto.RegisterRequest{Email: " Ada@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, "ada@example.com", reg.User.Email)

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "another"})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)

	login, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "ADA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.Id, login.User.Id)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	require.NoError(t, f.auth.Logout(ctx, reg.User.Id))
	assert.Equal(t, []string{events.AccountCreated, events.UserLogin, events.UserLogout}, f.events.Types())
}

func TestAccountSaveAndShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.register(t, "ada@example.com")

	_, err := f.accounts.Show(ctx, userId, userId)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.accounts.Save(ctx, userId, &dto.SaveAccountRequest{Id: uuid.New(), Name: "Eve", Email: "eve@example.com"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	saved, err := f.accounts.Save(ctx, userId, &dto.SaveAccountRequest{Id: userId, Name: " Ada ", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())

	f.cache.Delete(userId)
	shown, err := f.accounts.Show(ctx, userId, userId)
	require.NoError(t, err)
	assert.Equal(t, "Ada", shown.Name)

	assert.Eventually(t, func() bool { return f.mail.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestSideEffectFailuresAreLoggedNotReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mail.err = errors.New("smtp: connection refused")
	issuer := serverutils.NewTokenIssuer("test-secret", time.Hour)
	f.auth = NewAuthService(f.uow, issuer, f.cache, f.changes, failingPublisher{}, f.logs)

	res, err := f.auth.Register(ctx, &dto.RegisterRequest{Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	userId := res.User.Id

	_, err = f.accounts.Save(ctx, userId, &dto.SaveAccountRequest{Id: userId, Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	assert.Contains(t, f.logs.warnings(), "Events: Failed to publish event")
	assert.Eventually(t, func() bool {
		return slices.Contains(f.logs.warnings(), "AccountService: Failed to send welcome mail")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, f.mail.count())
}

func TestNotebookSaveListAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "ada@example.com")
	eve := f.register(t, "eve@example.com")

	second := f.notebook(t, ada, "Work", 1)
	first := f.notebook(t, ada, "My Notebook", 0)

	list, err := f.notebooks.GetAll(ctx, ada)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].Id)
	assert.Equal(t, second, list[1].Id)

	_, err = f.notebooks.Save(ctx, eve, &dto.SaveNotebookRequest{Id: first, Name: "Hijack"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.notebooks.Show(ctx, eve, first)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.notebooks.Save(ctx, ada, &dto.SaveNotebookRequest{Id: uuid.New(), Name: "   "})
	assert.Error(t, err)
	assert.Equal(t, 400, apperror.StatusOf(err))

	// Re-saving keeps the original creation time.
	before, err := f.notebooks.Show(ctx, ada, first)
	require.NoError(t, err)
	renamed, err := f.notebooks.Save(ctx, ada, &dto.SaveNotebookRequest{Id: first, Name: "Inbox", CreatedAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Inbox", renamed.Name)
	assert.True(t, before.CreatedAt.Equal(renamed.CreatedAt))

	assert.Equal(t, 2, countType(f.events.Types(), events.NotebookCreated))
}

func TestNotebookDeleteCascadesAndKeepsLast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "ada@example.com")

	keep := f.notebook(t, ada, "My Notebook", 0)
	drop := f.notebook(t, ada, "Groceries", 1)
	f.task(t, ada, drop, "milk")
	f.task(t, ada, drop, "eggs")
	kept := f.task(t, ada, keep, "file taxes")

	res, err := f.notebooks.Delete(ctx, ada, drop)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DeletedTasks)

	tasks, err := f.tasks.GetAll(ctx, ada, drop)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	tasks, err = f.tasks.GetAll(ctx, ada, keep)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, kept, tasks[0].Id)

	_, err = f.notebooks.Delete(ctx, ada, keep)
	assert.ErrorIs(t, err, apperror.ErrLastNotebook)

	_, err = f.notebooks.Delete(ctx, ada, drop)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.Contains(t, f.changes.all(), entity.Change{Collection: entity.CollectionTasks, UserId: ada, NotebookId: drop})
}

func TestTaskSaveToggleAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "ada@example.com")
	eve := f.register(t, "eve@example.com")
	nb := f.notebook(t, ada, "My Notebook", 0)

	_, err := f.tasks.Save(ctx, eve, &dto.SaveTaskRequest{Id: uuid.New(), NotebookId: nb, Text: "sneaky"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	first := f.task(t, ada, nb, "first")
	second := f.task(t, ada, nb, "second")

	toggled, err := f.tasks.Save(ctx, ada, &dto.SaveTaskRequest{Id: first, NotebookId: nb, Text: "first", Completed: true})
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	// Saving an already completed task does not re-announce completion.
	_, err = f.tasks.Save(ctx, ada, &dto.SaveTaskRequest{Id: first, NotebookId: nb, Text: "first", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, countType(f.events.Types(), events.TaskCompleted))

	list, err := f.tasks.GetAll(ctx, ada, nb)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].Id)
	assert.Equal(t, second, list[1].Id)

	assert.ErrorIs(t, f.tasks.Delete(ctx, eve, second), apperror.ErrForbidden)
	require.NoError(t, f.tasks.Delete(ctx, ada, second))
	require.NoError(t, f.tasks.Delete(ctx, ada, second))

	_, err = f.tasks.Show(ctx, ada, second)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "ada@example.com")
	_, err := f.accounts.Save(ctx, ada, &dto.SaveAccountRequest{Id: ada, Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	nb := f.notebook(t, ada, "My Notebook", 0)
	f.task(t, ada, nb, "task")

	require.NoError(t, f.auth.DeleteAccount(ctx, ada))

	_, err = f.accounts.Show(ctx, ada, ada)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	list, err := f.notebooks.GetAll(ctx, ada)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The email is free again.
	f.register(t, "ada@example.com")

	assert.ErrorIs(t, f.auth.DeleteAccount(ctx, ada), apperror.ErrNotFound)
}

func TestFeedSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.register(t, "ada@example.com")
	eve := f.register(t, "eve@example.com")
	nb := f.notebook(t, ada, "My Notebook", 0)
	f.task(t, ada, nb, "one")

	frame, err := f.feed.Snapshot(ctx, ada, dto.LiveRequest{SubId: "n", Collection: "notebooks", Field: "user_id", Value: ada.String()})
	require.NoError(t, err)
	assert.Equal(t, dto.LiveTypeSnapshot, frame.Type)
	assert.Len(t, frame.Notebooks, 1)

	frame, err = f.feed.Snapshot(ctx, ada, dto.LiveRequest{SubId: "t", Collection: "tasks", Field: "notebook_id", Value: nb.String()})
	require.NoError(t, err)
	assert.Len(t, frame.Tasks, 1)

	_, err = f.feed.Snapshot(ctx, eve, dto.LiveRequest{SubId: "t", Collection: "tasks", Field: "notebook_id", Value: nb.String()})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.feed.Snapshot(ctx, eve, dto.LiveRequest{SubId: "n", Collection: "notebooks", Field: "user_id", Value: ada.String()})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	frame, err = f.feed.Snapshot(ctx, ada, dto.LiveRequest{SubId: "t", Collection: "tasks", Field: "notebook_id", Value: uuid.NewString()})
	require.NoError(t, err)
	assert.Empty(t, frame.Tasks)

	assert.Error(t, f.feed.Validate(ada, dto.LiveRequest{SubId: "x", Collection: "notes", Field: "user_id", Value: ada.String()}))
	assert.Error(t, f.feed.Validate(ada, dto.LiveRequest{Collection: "notebooks", Field: "user_id", Value: ada.String()}))
}

func TestMatches(t *testing.T) {
	user, nb := uuid.New(), uuid.New()
	notebooksQuery := dto.LiveRequest{Collection: "notebooks", Field: "user_id", Value: user.String()}
	tasksQuery := dto.LiveRequest{Collection: "tasks", Field: "notebook_id", Value: nb.String()}

	assert.True(t, Matches(notebooksQuery, entity.Change{Collection: "notebooks", UserId: user}))
	assert.False(t, Matches(notebooksQuery, entity.Change{Collection: "notebooks", UserId: uuid.New()}))
	assert.False(t, Matches(notebooksQuery, entity.Change{Collection: "tasks", UserId: user, NotebookId: nb}))
	assert.True(t, Matches(tasksQuery, entity.Change{Collection: "tasks", UserId: user, NotebookId: nb}))
}

func TestActivityRecordAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := uuid.New()

	require.NoError(t, f.activity.Record(ctx, events.New(events.UserLogin, map[string]interface{}{"user_id": ada.String()})))
	later := events.New(events.TaskCompleted, map[string]interface{}{"user_id": ada.String(), "task_id": "t1"})
	later.OccurredAt = later.OccurredAt.Add(time.Second)
	require.NoError(t, f.activity.Record(ctx, later))
	require.NoError(t, f.activity.Record(ctx, events.New(events.UserLogin, nil)))

	list, err := f.activity.List(ctx, ada, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, events.TaskCompleted, list[0].EventType)
	assert.Equal(t, "t1", list[0].Metadata["task_id"])

	list, err = f.activity.List(ctx, ada, 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, events.UserLogin, list[0].EventType)
}

func countType(types []string, want string) int {
	n := 0
	for _, ty := range types {
		if ty == want {
			n++
		}
	}
	return n
}
