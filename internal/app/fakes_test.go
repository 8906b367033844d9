package app

import (
	"context"
	"errors"
	"slices"
	"time"
)

// stepScheduler runs Go and Post work on the test goroutine in FIFO order.
type stepScheduler struct {
	queue []func()
}

func (s *stepScheduler) Go(fn func())   { s.queue = append(s.queue, fn) }
func (s *stepScheduler) Post(fn func()) { s.queue = append(s.queue, fn) }

func (s *stepScheduler) step() bool {
	if len(s.queue) == 0 {
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	fn()
	return true
}

func (s *stepScheduler) drain() {
	for s.step() {
	}
}

type fakeUser struct {
	account  Account
	password string
}

type fakeAuth struct {
	users     map[string]*fakeUser
	current   *Account
	listeners map[int]func(*Account)
	nextID    int

	signOutErr error
	deleted    []string
	calls      int
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]*fakeUser{}, listeners: map[int]func(*Account){}}
}

func (f *fakeAuth) emit(acct *Account) {
	f.current = acct
	for _, fn := range f.listeners {
		fn(acct)
	}
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (Account, error) {
	f.calls++
	u, ok := f.users[email]
	if !ok || u.password != password {
		return Account{}, errors.New("invalid email or password")
	}
	acct := u.account
	f.emit(&acct)
	return acct, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, password string) (Account, error) {
	f.calls++
	if _, ok := f.users[email]; ok {
		return Account{}, errors.New("email already registered")
	}
	acct := Account{ID: newID(), Email: email}
	f.users[email] = &fakeUser{account: acct, password: password}
	f.emit(&acct)
	return acct, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.calls++
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.emit(nil)
	return nil
}

func (f *fakeAuth) DeleteAccount(context.Context) error {
	f.calls++
	if f.current == nil {
		return errors.New("not signed in")
	}
	f.deleted = append(f.deleted, f.current.ID)
	delete(f.users, f.current.Email)
	f.emit(nil)
	return nil
}

func (f *fakeAuth) OnStateChange(fn func(*Account)) func() {
	f.nextID++
	id := f.nextID
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

type fakeSub struct {
	cancel func()
}

func (s *fakeSub) Cancel() { s.cancel() }

type notebookWatch struct {
	owner string
	fn    func([]Notebook)
}

type taskWatch struct {
	notebookID string
	fn         func([]Task)
}

// fakeStore keeps records in arrival order and pushes a full snapshot to
// every matching watcher after each write.
type fakeStore struct {
	accounts  map[string]Account
	notebooks []Notebook
	tasks     []Task

	nbWatches   map[int]notebookWatch
	taskWatches map[int]taskWatch
	nextWatch   int

	// every task watcher ever opened, cancelled or not
	taskFns map[string][]func([]Task)

	failPutAccount     error
	failPutNotebook    error
	failDeleteNotebook error
	failPutTask        error

	lostFns []func(error)

	putTasks int
	calls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:    map[string]Account{},
		nbWatches:   map[int]notebookWatch{},
		taskWatches: map[int]taskWatch{},
		taskFns:     map[string][]func([]Task){},
	}
}

func (f *fakeStore) PutAccount(_ context.Context, a Account) error {
	f.calls++
	if f.failPutAccount != nil {
		return f.failPutAccount
	}
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeStore) GetAccount(_ context.Context, id string) (*Account, error) {
	f.calls++
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeStore) PutNotebook(_ context.Context, nb Notebook) error {
	f.calls++
	if f.failPutNotebook != nil {
		return f.failPutNotebook
	}
	if i := slices.IndexFunc(f.notebooks, func(x Notebook) bool { return x.ID == nb.ID }); i >= 0 {
		f.notebooks[i] = nb
	} else {
		f.notebooks = append(f.notebooks, nb)
	}
	f.notifyNotebooks(nb.OwnerID)
	return nil
}

func (f *fakeStore) DeleteNotebook(_ context.Context, id string) error {
	f.calls++
	if f.failDeleteNotebook != nil {
		return f.failDeleteNotebook
	}
	i := slices.IndexFunc(f.notebooks, func(x Notebook) bool { return x.ID == id })
	if i < 0 {
		return errors.New("notebook not found")
	}
	owner := f.notebooks[i].OwnerID
	f.notebooks = slices.Delete(f.notebooks, i, i+1)
	f.tasks = slices.DeleteFunc(f.tasks, func(t Task) bool { return t.NotebookID == id })
	f.notifyNotebooks(owner)
	f.notifyTasks(id)
	return nil
}

func (f *fakeStore) WatchNotebooks(owner string, fn func([]Notebook)) (Subscription, error) {
	f.calls++
	f.nextWatch++
	id := f.nextWatch
	f.nbWatches[id] = notebookWatch{owner: owner, fn: fn}
	fn(f.notebooksOf(owner))
	return &fakeSub{cancel: func() { delete(f.nbWatches, id) }}, nil
}

func (f *fakeStore) PutTask(_ context.Context, t Task) error {
	f.calls++
	f.putTasks++
	if f.failPutTask != nil {
		return f.failPutTask
	}
	if i := slices.IndexFunc(f.tasks, func(x Task) bool { return x.ID == t.ID }); i >= 0 {
		f.tasks[i] = t
	} else {
		f.tasks = append(f.tasks, t)
	}
	f.notifyTasks(t.NotebookID)
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id string) error {
	f.calls++
	i := slices.IndexFunc(f.tasks, func(x Task) bool { return x.ID == id })
	if i < 0 {
		return nil
	}
	nbID := f.tasks[i].NotebookID
	f.tasks = slices.Delete(f.tasks, i, i+1)
	f.notifyTasks(nbID)
	return nil
}

func (f *fakeStore) WatchTasks(notebookID string, fn func([]Task)) (Subscription, error) {
	f.calls++
	f.nextWatch++
	id := f.nextWatch
	f.taskWatches[id] = taskWatch{notebookID: notebookID, fn: fn}
	f.taskFns[notebookID] = append(f.taskFns[notebookID], fn)
	fn(f.tasksOf(notebookID))
	return &fakeSub{cancel: func() { delete(f.taskWatches, id) }}, nil
}

func (f *fakeStore) OnLiveLost(fn func(error)) func() {
	f.lostFns = append(f.lostFns, fn)
	return func() { f.lostFns = nil }
}

// loseLive drops every watcher the way a broken connection does.
func (f *fakeStore) loseLive(err error) {
	clear(f.nbWatches)
	clear(f.taskWatches)
	for _, fn := range f.lostFns {
		fn(err)
	}
}

func (f *fakeStore) notebooksOf(owner string) []Notebook {
	var out []Notebook
	for _, nb := range f.notebooks {
		if nb.OwnerID == owner {
			out = append(out, nb)
		}
	}
	return out
}

func (f *fakeStore) tasksOf(notebookID string) []Task {
	var out []Task
	for _, t := range f.tasks {
		if t.NotebookID == notebookID {
			out = append(out, t)
		}
	}
	return out
}

func (f *fakeStore) notifyNotebooks(owner string) {
	for _, w := range f.nbWatches {
		if w.owner == owner {
			w.fn(f.notebooksOf(owner))
		}
	}
}

func (f *fakeStore) notifyTasks(notebookID string) {
	for _, w := range f.taskWatches {
		if w.notebookID == notebookID {
			w.fn(f.tasksOf(notebookID))
		}
	}
}

type fakeUI struct {
	views      []View
	alerts     []string
	prompts    []string
	confirm    bool
	shakes     int
	celebrates int
}

func (u *fakeUI) Render(v View)     { u.views = append(u.views, v) }
func (u *fakeUI) Alert(msg string)  { u.alerts = append(u.alerts, msg) }
func (u *fakeUI) Shake()            { u.shakes++ }
func (u *fakeUI) Celebrate()        { u.celebrates++ }
func (u *fakeUI) last() View        { return u.views[len(u.views)-1] }
func (u *fakeUI) Confirm(prompt string, onYes func()) {
	u.prompts = append(u.prompts, prompt)
	if u.confirm {
		onYes()
	}
}

type harness struct {
	app   *App
	auth  *fakeAuth
	store *fakeStore
	ui    *fakeUI
	sched *stepScheduler
	clock time.Time
}

func newHarness() *harness {
	h := &harness{
		auth:  newFakeAuth(),
		store: newFakeStore(),
		ui:    &fakeUI{confirm: true},
		sched: &stepScheduler{},
		clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	h.app = New(Deps{
		Auth:      h.auth,
		Store:     h.store,
		UI:        h.ui,
		Scheduler: h.sched,
		Now: func() time.Time {
			h.clock = h.clock.Add(time.Second)
			return h.clock
		},
	})
	h.app.Start()
	return h
}

func (h *harness) remoteCalls() int {
	return h.auth.calls + h.store.calls
}

func (h *harness) signUp(name, email, password string) {
	h.app.Session.SignUp(name, email, password)
	h.sched.drain()
}

func (h *harness) notebookNamed(name string) Notebook {
	for _, nb := range h.app.state.Notebooks {
		if nb.Name == name {
			return nb
		}
	}
	return Notebook{}
}
