package app

import "fmt"

type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

// ValidationError is raised before any remote call and shown next to the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type AuthForm struct {
	Open  bool
	Mode  AuthMode
	Busy  bool
	Error string
}

// Session is the current identity and notebook selection.
type Session struct {
	Account    *Account
	NotebookID string

	// epoch changes on every auth-state transition; continuations started
	// under an older epoch are dropped.
	epoch uint64
}

func (s *Session) Reset() {
	s.Account = nil
	s.NotebookID = ""
}

type Stats struct {
	Total     int
	Active    int
	Completed int
}

func computeStats(tasks []Task) Stats {
	st := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Active = st.Total - st.Completed
	return st
}

// State is owned by the event loop. Lists are caches rebuilt from live queries.
type State struct {
	Session   Session
	Auth      AuthForm
	Notebooks []Notebook
	Tasks     []Task
	Stats     Stats
}

func (s *State) hasNotebook(id string) bool {
	for _, nb := range s.Notebooks {
		if nb.ID == id {
			return true
		}
	}
	return false
}
