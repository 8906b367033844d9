package tui

import (
	"fmt"
	"strings"

	"notefiber-todo/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var body string
	switch {
	case m.modal != nil:
		body = m.renderModal()
	case m.view.Layout == app.LayoutAnonymous:
		body = m.renderAuth()
	default:
		body = m.renderMain()
	}

	if m.width > maxWidth {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, body)
	}
	return body
}

func (m *Model) renderAuth() string {
	form := m.view.Auth
	var b strings.Builder

	signIn, signUp := m.st.tabSelected, m.st.tab
	if form.Mode == app.ModeSignUp {
		signIn, signUp = m.st.tab, m.st.tabSelected
	}
	b.WriteString(m.st.title.Render("Todo") + "\n\n")
	b.WriteString(signIn.Render("Sign in") + " " + signUp.Render("Sign up") + "\n\n")

	if form.Mode == app.ModeSignUp {
		b.WriteString(m.authInputs[authName].View() + "\n")
	}
	b.WriteString(m.authInputs[authEmail].View() + "\n")
	b.WriteString(m.authInputs[authPassword].View() + "\n\n")

	switch {
	case form.Busy:
		b.WriteString(m.st.dim.Render("Please wait...") + "\n")
	case form.Error != "":
		b.WriteString(m.st.errorText.Render(form.Error) + "\n")
	}

	b.WriteString("\n" + m.help(m.keys.Submit, m.keys.Focus, m.keys.SwitchMode, m.keys.Quit))
	return m.st.boxFocus.Width(maxWidth - 4).Render(b.String())
}

func (m *Model) renderMain() string {
	v := m.view
	var b strings.Builder

	b.WriteString(m.st.title.Render("Todo") + m.st.dim.Render(" · "+v.DisplayName) + "\n\n")
	b.WriteString(m.renderTabs() + "\n\n")

	if m.naming {
		b.WriteString(m.st.boxFocus.Width(maxWidth - 4).Render(m.notebookInput.View()) + "\n")
	}

	inputBox := m.st.box
	if m.focus == focusTaskInput && !m.naming {
		inputBox = m.st.boxFocus
	}
	if m.flash == flashShake {
		inputBox = m.st.boxShake
	}
	b.WriteString(inputBox.Width(maxWidth-4).Render(m.taskInput.View()) + "\n\n")

	b.WriteString(m.renderTasks() + "\n\n")
	b.WriteString(m.st.stats.Render(fmt.Sprintf("Total: %d   Active: %d   Completed: %d",
		v.Stats.Total, v.Stats.Active, v.Stats.Completed)) + "\n")

	if m.flash == flashCelebrate {
		b.WriteString(m.st.success.Render("✔ Nice work!") + "\n")
	}

	b.WriteString("\n")
	if m.focus == focusTaskList {
		b.WriteString(m.help(m.keys.Toggle, m.keys.Delete, m.keys.PrevNotebook, m.keys.NextNotebook,
			m.keys.NewNotebook, m.keys.DelNotebook, m.keys.Focus, m.keys.SignOut))
	} else {
		b.WriteString(m.help(m.keys.Submit, m.keys.Focus, m.keys.SignOut, m.keys.Quit))
	}
	return b.String()
}

func (m *Model) renderTabs() string {
	if len(m.view.Tabs) == 0 {
		return m.st.dim.Render("No notebooks")
	}
	parts := make([]string, 0, len(m.view.Tabs))
	for _, tab := range m.view.Tabs {
		label := tab.Name
		if tab.Deletable {
			label += " ×"
		}
		style := m.st.tab
		if tab.Selected {
			style = m.st.tabSelected
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderTasks() string {
	list := m.view.Tasks
	if list.Empty != "" {
		return m.st.dim.Render(list.Empty)
	}

	lines := make([]string, len(list.Rows))
	for i, row := range list.Rows {
		check := "[ ]"
		text := m.st.row.Render(row.Text)
		if row.Completed {
			check = "[x]"
			text = m.st.done.Render(row.Text)
		}
		line := check + " " + text
		if row.New {
			line += " " + m.st.badge.Render("new")
		}
		if m.focus == focusTaskList && i == m.cursor {
			line = m.st.rowCursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderModal() string {
	md := m.modal
	hint := "enter to close"
	if md.confirm {
		hint = "y to confirm · n to cancel"
	}
	return m.st.modal.Render(md.text + "\n\n" + m.st.dim.Render(hint))
}

func (m *Model) help(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.st.dim.Render(strings.Join(parts, " · "))
}
