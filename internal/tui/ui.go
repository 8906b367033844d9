package tui

import (
	"time"

	"notefiber-todo/internal/app"
)

const (
	shakeDuration     = 400 * time.Millisecond
	celebrateDuration = 1500 * time.Millisecond
)

var _ app.UI = (*Model)(nil)

func (m *Model) Render(v app.View) {
	prev := m.view.Layout
	m.view = v

	if prev != v.Layout {
		if v.Layout == app.LayoutAuthenticated {
			m.authInputs[authPassword].Reset()
			m.setFocus(focusTaskInput)
		} else {
			m.taskInput.Reset()
			m.stopNaming()
			m.modal = nil
			m.focusAuth(m.firstAuthField())
		}
		m.cursor = 0
	}
	if n := len(v.Tasks.Rows); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) Alert(message string) {
	m.modal = &modal{text: message}
}

func (m *Model) Confirm(prompt string, onYes func()) {
	m.modal = &modal{text: prompt, confirm: true, onYes: onYes}
}

func (m *Model) Shake() {
	m.startFlash(flashShake, shakeDuration)
}

func (m *Model) Celebrate() {
	m.startFlash(flashCelebrate, celebrateDuration)
}
