package tui

import (
	"strings"
	"time"

	"notefiber-todo/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type focusArea int

const (
	focusTaskInput focusArea = iota
	focusTaskList
)

const (
	authName = iota
	authEmail
	authPassword
)

type flashKind int

const (
	flashNone flashKind = iota
	flashShake
	flashCelebrate
)

type startMsg struct{}

type flashDoneMsg struct{ seq int }

type modal struct {
	text    string
	confirm bool
	onYes   func()
}

// Model is the bubbletea front end. It is also the app.UI the client core
// renders into; those calls always arrive on the event loop.
type Model struct {
	app  *app.App
	loop *Loop
	keys keyMap
	st   styles

	view app.View

	authInputs []textinput.Model
	authFocus  int

	taskInput     textinput.Model
	notebookInput textinput.Model
	naming        bool
	focus         focusArea
	cursor        int

	modal    *modal
	flash    flashKind
	flashSeq int

	// cmds collects commands raised by UI callbacks during one Update.
	cmds []tea.Cmd

	width  int
	height int
}

// New builds the model and the client core around it. deps.UI and
// deps.Scheduler are supplied by the model.
func New(deps app.Deps) *Model {
	m := &Model{
		loop: NewLoop(),
		keys: defaultKeyMap(),
		st:   newStyles(DefaultTheme),
	}

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 255
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 255
	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	m.authInputs = []textinput.Model{name, email, password}

	m.taskInput = textinput.New()
	m.taskInput.Placeholder = "What needs to be done?"
	m.taskInput.CharLimit = 500

	m.notebookInput = textinput.New()
	m.notebookInput.Placeholder = "Notebook name"
	m.notebookInput.CharLimit = 255

	deps.UI = m
	deps.Scheduler = m.loop
	m.app = app.New(deps)
	m.view = m.app.View()
	m.focusAuth(authEmail)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loop.Wait(),
		func() tea.Msg { return startMsg{} },
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case startMsg:
		m.app.Start()
	case drainMsg:
		m.loop.Drain()
		m.cmds = append(m.cmds, m.loop.Wait())
	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = flashNone
		}
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.app.Stop()
			return m, tea.Quit
		}
		cmd = m.handleKey(msg)
	default:
		cmd = m.updateFocusedInput(msg)
	}

	cmds := append(m.cmds, cmd)
	m.cmds = nil
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.modal != nil {
		m.handleModalKey(msg)
		return nil
	}
	if m.view.Layout == app.LayoutAnonymous {
		return m.handleAuthKey(msg)
	}
	if key.Matches(msg, m.keys.SignOut) {
		m.app.Session.SignOut()
		return nil
	}
	if m.naming {
		return m.handleNamingKey(msg)
	}
	if m.focus == focusTaskInput {
		return m.handleTaskInputKey(msg)
	}
	m.handleListKey(msg)
	return nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) {
	md := m.modal
	switch {
	case !md.confirm && (key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel)):
		m.modal = nil
	case md.confirm && key.Matches(msg, m.keys.Yes):
		m.modal = nil
		md.onYes()
	case md.confirm && key.Matches(msg, m.keys.No):
		m.modal = nil
	}
}

func (m *Model) handleAuthKey(msg tea.KeyMsg) tea.Cmd {
	form := m.view.Auth
	switch {
	case key.Matches(msg, m.keys.SwitchMode):
		next := app.ModeSignUp
		if form.Mode == app.ModeSignUp {
			next = app.ModeSignIn
		}
		m.app.Session.SetMode(next)
		m.focusAuth(m.firstAuthField())
		return nil
	case key.Matches(msg, m.keys.Focus):
		m.cycleAuthFocus(msg.String() == "shift+tab")
		return nil
	case key.Matches(msg, m.keys.Submit):
		if form.Busy {
			return nil
		}
		email := m.authInputs[authEmail].Value()
		password := m.authInputs[authPassword].Value()
		if form.Mode == app.ModeSignUp {
			m.app.Session.SignUp(m.authInputs[authName].Value(), email, password)
		} else {
			m.app.Session.SignIn(email, password)
		}
		return nil
	}
	return m.updateFocusedInput(msg)
}

func (m *Model) handleNamingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.app.Notebooks.Create(m.notebookInput.Value())
		m.stopNaming()
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.stopNaming()
		return nil
	}
	var cmd tea.Cmd
	m.notebookInput, cmd = m.notebookInput.Update(msg)
	return cmd
}

func (m *Model) handleTaskInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusTaskList)
		return nil
	case key.Matches(msg, m.keys.Submit):
		text := m.taskInput.Value()
		m.app.Tasks.Add(text)
		if strings.TrimSpace(text) != "" {
			m.taskInput.Reset()
		}
		return nil
	}
	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) {
	rows := m.view.Tasks.Rows
	switch {
	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusTaskInput)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(rows) {
			m.app.Tasks.Toggle(rows[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(rows) {
			m.app.Tasks.Remove(rows[m.cursor].ID)
		}
	case key.Matches(msg, m.keys.PrevNotebook):
		m.app.Notebooks.SelectOffset(-1)
	case key.Matches(msg, m.keys.NextNotebook):
		m.app.Notebooks.SelectOffset(1)
	case key.Matches(msg, m.keys.NewNotebook):
		m.naming = true
		m.notebookInput.Reset()
		m.notebookInput.Focus()
	case key.Matches(msg, m.keys.DelNotebook):
		if i := m.view.SelectedTab; i >= 0 && i < len(m.view.Tabs) {
			m.app.Notebooks.Delete(m.view.Tabs[i].ID)
		}
	}
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.view.Layout == app.LayoutAnonymous:
		m.authInputs[m.authFocus], cmd = m.authInputs[m.authFocus].Update(msg)
	case m.naming:
		m.notebookInput, cmd = m.notebookInput.Update(msg)
	case m.focus == focusTaskInput:
		m.taskInput, cmd = m.taskInput.Update(msg)
	}
	return cmd
}

func (m *Model) firstAuthField() int {
	if m.view.Auth.Mode == app.ModeSignUp {
		return authName
	}
	return authEmail
}

func (m *Model) cycleAuthFocus(back bool) {
	first := m.firstAuthField()
	n := len(m.authInputs) - first
	idx := m.authFocus - first
	if back {
		idx = (idx - 1 + n) % n
	} else {
		idx = (idx + 1) % n
	}
	m.focusAuth(first + idx)
}

func (m *Model) focusAuth(idx int) {
	for i := range m.authInputs {
		if i == idx {
			m.authInputs[i].Focus()
		} else {
			m.authInputs[i].Blur()
		}
	}
	m.authFocus = idx
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusTaskInput {
		m.taskInput.Focus()
	} else {
		m.taskInput.Blur()
	}
}

func (m *Model) stopNaming() {
	m.naming = false
	m.notebookInput.Blur()
}

func (m *Model) startFlash(kind flashKind, d time.Duration) {
	m.flash = kind
	m.flashSeq++
	seq := m.flashSeq
	m.cmds = append(m.cmds, tea.Tick(d, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} }))
}
