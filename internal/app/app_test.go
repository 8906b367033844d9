package app

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"notefiber-todo/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpCreatesAccountAndDefaultNotebook(t *testing.T) {
	h := newHarness()

	h.signUp("Ada", "ada@example.com", "secret1")

	require.Len(t, h.store.accounts, 1)
	for _, acct := range h.store.accounts {
		assert.Equal(t, "Ada", acct.Name)
		assert.Equal(t, "ada@example.com", acct.Email)
	}
	require.Len(t, h.store.notebooks, 1)
	assert.Equal(t, constant.DefaultNotebookName, h.store.notebooks[0].Name)
	assert.Equal(t, 0, h.store.notebooks[0].Order)

	v := h.ui.last()
	assert.Equal(t, LayoutAuthenticated, v.Layout)
	assert.Equal(t, "Ada", v.DisplayName)
	assert.False(t, v.Auth.Open)
	assert.False(t, v.Auth.Busy)
	require.Len(t, v.Tabs, 1)
	assert.True(t, v.Tabs[0].Selected)
	assert.False(t, v.Tabs[0].Deletable)
	assert.Equal(t, constant.EmptyTaskMessage, v.Tasks.Empty)
	assert.Equal(t, Stats{}, v.Stats)
}

func TestSignUpValidationNeverCallsRemote(t *testing.T) {
	cases := []struct {
		name, email, password string
		want                  string
	}{
		{"Ada", "ada@example.com", "12345", "Password must be at least 6 characters"},
		{"Ada", "ada@example.com", "", "Please fill in all fields"},
		{"", "ada@example.com", "secret1", "Please fill in all fields"},
		{"Ada", "   ", "secret1", "Please fill in all fields"},
	}

	for _, tc := range cases {
		h := newHarness()
		h.app.Session.SignUp(tc.name, tc.email, tc.password)
		h.sched.drain()

		assert.Equal(t, 0, h.remoteCalls())
		assert.Equal(t, tc.want, h.ui.last().Auth.Error)
		assert.Equal(t, LayoutAnonymous, h.ui.last().Layout)
	}
}

func TestSignInSurfacesProviderError(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.app.Session.SignOut()
	h.sched.drain()

	h.app.Session.SignIn("", "secret1")
	assert.Equal(t, "Please fill in all fields", h.ui.last().Auth.Error)

	h.app.Session.SignIn("ada@example.com", "wrong")
	assert.True(t, h.ui.last().Auth.Busy)
	h.sched.drain()

	v := h.ui.last()
	assert.False(t, v.Auth.Busy)
	assert.True(t, v.Auth.Open)
	assert.Equal(t, "invalid email or password", v.Auth.Error)

	h.app.Session.SignIn("ada@example.com", "secret1")
	h.sched.drain()

	v = h.ui.last()
	assert.Equal(t, LayoutAuthenticated, v.Layout)
	assert.Equal(t, "Ada", v.DisplayName)
	assert.Len(t, v.Tabs, 1)
}

func TestSignUpRollsBackWhenProfileWriteFails(t *testing.T) {
	h := newHarness()
	h.store.failPutAccount = errors.New("permission denied")

	h.signUp("Ada", "ada@example.com", "secret1")

	assert.Len(t, h.auth.deleted, 1)
	assert.Empty(t, h.store.notebooks)
	v := h.ui.last()
	assert.Equal(t, LayoutAnonymous, v.Layout)
	assert.True(t, v.Auth.Open)
	assert.Equal(t, "permission denied", v.Auth.Error)
}

func TestSignUpRollsBackWhenDefaultNotebookFails(t *testing.T) {
	h := newHarness()
	h.store.failPutNotebook = errors.New("quota exceeded")

	h.signUp("Ada", "ada@example.com", "secret1")

	assert.Len(t, h.auth.deleted, 1)
	assert.Equal(t, "quota exceeded", h.ui.last().Auth.Error)
	assert.Equal(t, LayoutAnonymous, h.ui.last().Layout)
}

func TestDisplayNameFallsBackToEmail(t *testing.T) {
	h := newHarness()
	h.auth.users["bob@example.com"] = &fakeUser{account: Account{ID: newID(), Email: "bob@example.com"}, password: "secret1"}

	h.app.Session.SignIn("bob@example.com", "secret1")
	h.sched.drain()

	assert.Equal(t, "bob@example.com", h.ui.last().DisplayName)
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")

	h.app.Tasks.Add("  Buy milk  ")
	h.sched.drain()

	v := h.ui.last()
	require.Len(t, v.Tasks.Rows, 1)
	assert.Equal(t, "Buy milk", v.Tasks.Rows[0].Text)
	assert.False(t, v.Tasks.Rows[0].Completed)
	assert.True(t, v.Tasks.Rows[0].New)
	assert.Equal(t, Stats{Total: 1, Active: 1, Completed: 0}, v.Stats)

	id := v.Tasks.Rows[0].ID
	h.app.Tasks.Toggle(id)
	h.sched.drain()

	v = h.ui.last()
	assert.Equal(t, Stats{Total: 1, Active: 0, Completed: 1}, v.Stats)
	assert.False(t, v.Tasks.Rows[0].New)
	assert.Equal(t, 1, h.ui.celebrates)

	h.app.Tasks.Remove(id)
	h.sched.drain()

	v = h.ui.last()
	assert.Empty(t, v.Tasks.Rows)
	assert.Equal(t, constant.EmptyTaskMessage, v.Tasks.Empty)
	assert.Equal(t, Stats{}, v.Stats)
}

func TestToggleTwiceRestoresFlag(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.app.Tasks.Add("Write report")
	h.sched.drain()
	id := h.app.state.Tasks[0].ID
	writes := h.store.putTasks

	h.app.Tasks.Toggle(id)
	h.app.Tasks.Toggle(id)
	h.sched.drain()

	assert.Equal(t, writes+2, h.store.putTasks)
	assert.False(t, h.app.state.Tasks[0].Completed)
	assert.False(t, h.store.tasks[0].Completed)
	assert.Equal(t, 1, h.ui.celebrates)
}

func TestAddIgnoresBlankTextAndMissingNotebook(t *testing.T) {
	h := newHarness()

	h.app.Tasks.Add("orphan")
	h.sched.drain()
	assert.Equal(t, 0, h.remoteCalls())

	h.signUp("Ada", "ada@example.com", "secret1")
	calls := h.remoteCalls()

	h.app.Tasks.Add("   ")
	h.sched.drain()

	assert.Equal(t, 1, h.ui.shakes)
	assert.Equal(t, calls, h.remoteCalls())
}

func TestTaskWriteFailureIsNotAlerted(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.store.failPutTask = errors.New("unavailable")

	h.app.Tasks.Add("Buy milk")
	h.sched.drain()

	assert.Empty(t, h.ui.alerts)
	assert.Empty(t, h.app.state.Tasks)
}

func TestNotebookScenario(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	original := h.notebookNamed(constant.DefaultNotebookName)

	h.app.Notebooks.Create("Work")
	h.sched.drain()

	work := h.notebookNamed("Work")
	require.NotEmpty(t, work.ID)
	assert.Equal(t, 1, work.Order)
	assert.Equal(t, work.ID, h.app.state.Session.NotebookID)
	assert.Equal(t, constant.EmptyTaskMessage, h.ui.last().Tasks.Empty)

	h.app.Tasks.Add("Quarterly plan")
	h.sched.drain()
	require.Len(t, h.store.tasks, 1)

	h.app.Notebooks.Create("Home")
	h.sched.drain()
	home := h.notebookNamed("Home")
	assert.Equal(t, home.ID, h.app.state.Session.NotebookID)

	h.app.Notebooks.Select(work.ID)
	h.sched.drain()
	require.Len(t, h.app.state.Tasks, 1)

	h.app.Notebooks.Delete(work.ID)
	h.sched.drain()

	assert.Equal(t, []string{"Delete this notebook? All todos will be deleted."}, h.ui.prompts)
	assert.Empty(t, h.store.tasks)
	assert.Len(t, h.app.state.Notebooks, 2)
	assert.Contains(t, []string{home.ID, original.ID}, h.app.state.Session.NotebookID)
	assert.Empty(t, h.app.state.Tasks)
	assert.Equal(t, Stats{}, h.ui.last().Stats)
}

func TestDeleteLastNotebookIsRejected(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	only := h.app.state.Notebooks[0].ID
	calls := h.remoteCalls()

	h.app.Notebooks.Delete(only)
	h.sched.drain()

	assert.Empty(t, h.ui.prompts)
	assert.Equal(t, calls, h.remoteCalls())
	assert.Len(t, h.store.notebooks, 1)
}

func TestDeleteNotebookRequiresConfirmation(t *testing.T) {
	h := newHarness()
	h.ui.confirm = false
	h.signUp("Ada", "ada@example.com", "secret1")
	h.app.Notebooks.Create("Work")
	h.sched.drain()
	calls := h.remoteCalls()

	h.app.Notebooks.Delete(h.notebookNamed("Work").ID)
	h.sched.drain()

	assert.Len(t, h.ui.prompts, 1)
	assert.Equal(t, calls, h.remoteCalls())
	assert.Len(t, h.store.notebooks, 2)
}

func TestNotebookFailuresAreAlerted(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")

	h.app.Notebooks.Create("   ")
	h.sched.drain()
	assert.Len(t, h.store.notebooks, 1)

	h.app.Notebooks.Create("Work")
	h.sched.drain()

	h.store.failPutNotebook = errors.New("denied")
	h.app.Notebooks.Create("Home")
	h.sched.drain()

	h.store.failDeleteNotebook = errors.New("denied")
	h.app.Notebooks.Delete(h.notebookNamed("Work").ID)
	h.sched.drain()

	assert.Equal(t, []string{"Failed to create notebook", "Failed to delete notebook"}, h.ui.alerts)
	assert.Len(t, h.app.state.Notebooks, 2)
}

func TestSwitchingNotebookDetachesTaskSubscription(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	a := h.app.state.Notebooks[0]
	h.app.Notebooks.Create("Work")
	h.sched.drain()
	b := h.notebookNamed("Work")

	h.app.Notebooks.Select(a.ID)
	h.sched.drain()
	fnsA := h.store.taskFns[a.ID]
	require.NotEmpty(t, fnsA)
	lateA := fnsA[len(fnsA)-1]
	stale := []Task{{ID: "stale", NotebookID: a.ID, Text: "from A", CreatedAt: time.Now()}}

	// queued on the loop before the switch
	lateA(stale)
	h.app.Notebooks.Select(b.ID)
	h.sched.drain()
	assert.Empty(t, h.app.state.Tasks)

	// delivered after the switch
	lateA(stale)
	h.sched.drain()
	assert.Empty(t, h.app.state.Tasks)
	assert.Equal(t, constant.EmptyTaskMessage, h.ui.last().Tasks.Empty)

	for _, w := range h.store.taskWatches {
		assert.Equal(t, b.ID, w.notebookID)
	}
}

func TestSubscriptionsOpenOffTheLoop(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	a := h.app.state.Notebooks[0]
	h.app.Notebooks.Create("Work")
	h.sched.drain()
	b := h.notebookNamed("Work")
	require.Equal(t, b.ID, h.app.state.Session.NotebookID)
	opened := len(h.store.taskFns[a.ID])

	// The watch for A is queued, not run; the loop keeps handling input.
	h.app.Notebooks.Select(a.ID)
	assert.Len(t, h.store.taskFns[a.ID], opened)
	assert.Equal(t, a.ID, h.app.state.Session.NotebookID)
	assert.Equal(t, 0, h.ui.last().SelectedTab)

	h.app.Notebooks.SelectOffset(1)
	assert.Equal(t, b.ID, h.app.state.Session.NotebookID)

	h.sched.drain()

	// The handle for A arrived after the switch and was cancelled.
	assert.Len(t, h.store.taskFns[a.ID], opened+1)
	require.Len(t, h.store.taskWatches, 1)
	for _, w := range h.store.taskWatches {
		assert.Equal(t, b.ID, w.notebookID)
	}
	assert.NotNil(t, h.app.Tasks.sub)
}

func TestLiveLossIsAlerted(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.app.Tasks.Add("Buy milk")
	h.sched.drain()

	h.store.loseLive(errors.New("connection reset"))
	h.sched.drain()

	assert.Equal(t, []string{msgLiveLost}, h.ui.alerts)
	assert.Nil(t, h.app.Notebooks.sub)
	assert.Nil(t, h.app.Tasks.sub)
	assert.Len(t, h.app.state.Notebooks, 1)

	h.app.Session.SignOut()
	h.sched.drain()
	h.store.loseLive(errors.New("connection reset"))
	h.sched.drain()
	assert.Len(t, h.ui.alerts, 1)
}

func TestSelectSameNotebookKeepsSubscription(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	id := h.app.state.Session.NotebookID
	before := len(h.store.taskFns[id])

	h.app.Notebooks.Select(id)
	h.sched.drain()

	assert.Len(t, h.store.taskFns[id], before)
}

func TestSignOutDetachesEverything(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.app.Tasks.Add("Buy milk")
	h.sched.drain()

	h.app.Session.SignOut()
	h.sched.drain()

	st := h.app.State()
	assert.Nil(t, st.Session.Account)
	assert.Empty(t, st.Session.NotebookID)
	assert.Empty(t, st.Notebooks)
	assert.Empty(t, st.Tasks)
	assert.Empty(t, h.store.nbWatches)
	assert.Empty(t, h.store.taskWatches)

	v := h.ui.last()
	assert.Equal(t, LayoutAnonymous, v.Layout)
	assert.True(t, v.Auth.Open)
}

func TestSignOutErrorIsOnlyLogged(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	h.auth.signOutErr = errors.New("network down")

	h.app.Session.SignOut()
	h.sched.drain()

	assert.Empty(t, h.ui.alerts)
	assert.Equal(t, LayoutAuthenticated, h.ui.last().Layout)
}

func TestLateProfileFromPreviousIdentityIsDropped(t *testing.T) {
	h := newHarness()
	acct := Account{ID: newID(), Email: "ada@example.com"}
	h.store.accounts[acct.ID] = Account{ID: acct.ID, Name: "Ada", Email: acct.Email}

	h.auth.emit(&acct)
	require.True(t, h.sched.step()) // auth state applied, profile fetch queued
	h.auth.emit(nil)
	require.True(t, h.sched.step()) // profile fetched, continuation queued after sign-out
	h.sched.drain()

	assert.Nil(t, h.app.state.Session.Account)
	assert.Empty(t, h.store.nbWatches)
	assert.Equal(t, LayoutAnonymous, h.ui.last().Layout)
}

func TestSelectionIsAlwaysAMemberOfTheList(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")
	owner := h.app.state.Session.Account.ID
	rng := rand.New(rand.NewSource(7))

	pool := make([]Notebook, 8)
	for i := range pool {
		pool[i] = Notebook{ID: newID(), OwnerID: owner, Name: "nb", Order: rng.Intn(4)}
	}

	for round := 0; round < 200; round++ {
		var list []Notebook
		for _, nb := range pool {
			if rng.Intn(2) == 0 {
				list = append(list, nb)
			}
		}
		h.app.Notebooks.apply(list)
		h.sched.drain()

		st := h.app.state
		if len(st.Notebooks) == 0 {
			assert.Empty(t, st.Session.NotebookID)
			continue
		}
		assert.True(t, st.hasNotebook(st.Session.NotebookID), "round %d", round)
		for i := 1; i < len(st.Notebooks); i++ {
			assert.LessOrEqual(t, st.Notebooks[i-1].Order, st.Notebooks[i].Order)
		}
	}
}

func TestNotebookSortIsStable(t *testing.T) {
	h := newHarness()
	h.signUp("Ada", "ada@example.com", "secret1")

	list := []Notebook{
		{ID: "c", Name: "third", Order: 1},
		{ID: "a", Name: "first", Order: 0},
		{ID: "b", Name: "second", Order: 1},
	}
	h.app.Notebooks.apply(list)

	var names []string
	for _, tab := range h.ui.last().Tabs {
		names = append(names, tab.Name)
	}
	assert.Equal(t, []string{"first", "third", "second"}, names)
}

func TestStatsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 100; round++ {
		tasks := make([]Task, rng.Intn(20))
		for i := range tasks {
			tasks[i].Completed = rng.Intn(2) == 0
		}

		st := computeStats(tasks)
		assert.Equal(t, st.Total, st.Active+st.Completed)
		assert.GreaterOrEqual(t, st.Active, 0)
		assert.GreaterOrEqual(t, st.Completed, 0)
		assert.Equal(t, len(tasks), st.Total)
	}
}
