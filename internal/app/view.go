package app

import "notefiber-todo/internal/constant"

type Layout int

const (
	LayoutAnonymous Layout = iota
	LayoutAuthenticated
)

type Tab struct {
	ID        string
	Name      string
	Selected  bool
	Deletable bool
}

type TaskRow struct {
	ID        string
	Text      string
	Completed bool
	New       bool
}

type TaskList struct {
	// Empty is set instead of Rows when there is nothing to list.
	Empty string
	Rows  []TaskRow
}

// View is everything a UI adapter needs to draw one frame.
type View struct {
	Layout      Layout
	DisplayName string
	Auth        AuthForm
	Tabs        []Tab
	SelectedTab int
	Tasks       TaskList
	Stats       Stats
}

// Project maps state to a view. It never mutates state.
func Project(s *State) View {
	v := View{
		Auth:        s.Auth,
		SelectedTab: -1,
	}
	if s.Session.Account == nil {
		v.Layout = LayoutAnonymous
		v.Tasks.Empty = constant.EmptyNotebookMessage
		return v
	}

	v.Layout = LayoutAuthenticated
	v.DisplayName = displayName(s.Session.Account)
	v.Tabs = projectTabs(s.Notebooks, s.Session.NotebookID)
	for i, tab := range v.Tabs {
		if tab.Selected {
			v.SelectedTab = i
		}
	}
	v.Tasks = projectTasks(s.Tasks, v.SelectedTab >= 0)
	v.Stats = s.Stats
	return v
}

func displayName(acct *Account) string {
	if acct.Name != "" {
		return acct.Name
	}
	return acct.Email
}

func projectTabs(notebooks []Notebook, selected string) []Tab {
	tabs := make([]Tab, 0, len(notebooks))
	deletable := len(notebooks) > 1
	for _, nb := range notebooks {
		tabs = append(tabs, Tab{
			ID:        nb.ID,
			Name:      nb.Name,
			Selected:  nb.ID == selected,
			Deletable: deletable,
		})
	}
	return tabs
}

func projectTasks(tasks []Task, hasNotebook bool) TaskList {
	switch {
	case !hasNotebook:
		return TaskList{Empty: constant.EmptyNotebookMessage}
	case len(tasks) == 0:
		return TaskList{Empty: constant.EmptyTaskMessage}
	}

	rows := make([]TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskRow{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			New:       i == len(tasks)-1 && !t.Completed,
		}
	}
	return TaskList{Rows: rows}
}
