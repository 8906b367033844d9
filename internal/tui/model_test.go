package tui

import (
	"testing"

	"notefiber-todo/internal/app"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoopDrainsInPostOrder(t *testing.T) {
	l := NewLoop()
	var got []int

	l.Post(func() { got = append(got, 1) })
	l.Post(func() {
		got = append(got, 2)
		l.Post(func() { got = append(got, 4) })
	})
	l.Post(func() { got = append(got, 3) })

	msg := l.Wait()()
	assert.IsType(t, drainMsg{}, msg)

	l.Drain()
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}

func TestConfirmModal(t *testing.T) {
	m := New(app.Deps{})
	confirmed := 0

	m.Confirm("Delete this notebook?", func() { confirmed++ })
	assert.Contains(t, m.View(), "Delete this notebook?")

	m.Update(runes("n"))
	assert.Nil(t, m.modal)
	assert.Equal(t, 0, confirmed)

	m.Confirm("Delete this notebook?", func() { confirmed++ })
	m.Update(runes("y"))
	assert.Nil(t, m.modal)
	assert.Equal(t, 1, confirmed)
}

func TestAlertClosesOnEnter(t *testing.T) {
	m := New(app.Deps{})

	m.Alert("Failed to create notebook")
	require.NotNil(t, m.modal)
	m.Update(runes("y"))
	assert.NotNil(t, m.modal)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.modal)
}

func TestRenderMovesFocusWithLayout(t *testing.T) {
	m := New(app.Deps{})
	assert.True(t, m.authInputs[authEmail].Focused())

	m.Render(app.View{
		Layout:      app.LayoutAuthenticated,
		DisplayName: "Ada",
		Tabs:        []app.Tab{{ID: "n1", Name: "My Notebook", Selected: true}},
		SelectedTab: 0,
		Tasks: app.TaskList{Rows: []app.TaskRow{
			{ID: "t1", Text: "Buy milk", New: true},
			{ID: "t2", Text: "Call mom", Completed: true},
		}},
		Stats: app.Stats{Total: 2, Active: 1, Completed: 1},
	})

	assert.Equal(t, focusTaskInput, m.focus)
	assert.True(t, m.taskInput.Focused())

	out := m.View()
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "My Notebook")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, "Total: 2   Active: 1   Completed: 1")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusTaskList, m.focus)
	m.Update(runes("j"))
	assert.Equal(t, 1, m.cursor)

	m.Render(app.View{Layout: app.LayoutAuthenticated, Tasks: app.TaskList{Empty: "No tasks yet. Add one to get started!"}})
	assert.Equal(t, 0, m.cursor)

	m.Render(app.View{Layout: app.LayoutAnonymous, Auth: app.AuthForm{Open: true, Error: "invalid credentials"}})
	assert.True(t, m.authInputs[authEmail].Focused())
	assert.Contains(t, m.View(), "invalid credentials")
}

func TestFlashClearsOnlyForLatestTick(t *testing.T) {
	m := New(app.Deps{})

	m.Shake()
	first := m.flashSeq
	m.Celebrate()
	assert.Equal(t, flashCelebrate, m.flash)

	m.Update(flashDoneMsg{seq: first})
	assert.Equal(t, flashCelebrate, m.flash)

	m.Update(flashDoneMsg{seq: m.flashSeq})
	assert.Equal(t, flashNone, m.flash)
}
