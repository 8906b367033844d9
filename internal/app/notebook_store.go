package app

import (
	"cmp"
	"slices"
	"strings"
)

const (
	msgConfirmDeleteNotebook = "Delete this notebook? All todos will be deleted."
	msgCreateNotebookFailed  = "Failed to create notebook"
	msgDeleteNotebookFailed  = "Failed to delete notebook"
)

// NotebookStore mirrors the signed-in account's notebooks and owns the selection.
type NotebookStore struct {
	app *App
	sub Subscription
	gen uint64

	// pending is a notebook created by this client that should become
	// selected as soon as a snapshot contains it.
	pending string
}

// subscribe opens the notebook query off the loop. The handle comes back
// through Post and is cancelled there if gen has moved on meanwhile.
func (s *NotebookStore) subscribe(ownerID string) {
	a := s.app
	s.detach()
	gen := s.gen

	a.sched.Go(func() {
		sub, err := a.store.WatchNotebooks(ownerID, func(list []Notebook) {
			a.sched.Post(func() {
				if gen != s.gen {
					return
				}
				s.apply(list)
			})
		})
		a.sched.Post(func() {
			if err != nil {
				a.logger.Error("NotebookStore", "Failed to subscribe to notebooks", map[string]interface{}{
					"user_id": ownerID,
					"error":   err.Error(),
				})
				return
			}
			if gen != s.gen {
				a.sched.Go(sub.Cancel)
				return
			}
			s.sub = sub
		})
	})
}

func (s *NotebookStore) detach() {
	if s.sub != nil {
		s.app.sched.Go(s.sub.Cancel)
		s.sub = nil
	}
	s.gen++
	s.pending = ""
}

func (s *NotebookStore) apply(list []Notebook) {
	a := s.app
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(x, y Notebook) int { return cmp.Compare(x.Order, y.Order) })
	a.state.Notebooks = sorted

	next := a.state.Session.NotebookID
	if s.pending != "" && a.state.hasNotebook(s.pending) {
		next = s.pending
		s.pending = ""
	}
	if next == "" || !a.state.hasNotebook(next) {
		next = ""
		if len(sorted) > 0 {
			next = sorted[0].ID
		}
	}
	s.selectID(next)
	a.render()
}

// Select switches the task list to another notebook of the current list.
func (s *NotebookStore) Select(id string) {
	if !s.app.state.hasNotebook(id) {
		return
	}
	s.pending = ""
	s.selectID(id)
	s.app.render()
}

// SelectOffset moves the selection by delta tabs, wrapping around.
func (s *NotebookStore) SelectOffset(delta int) {
	list := s.app.state.Notebooks
	if len(list) == 0 {
		return
	}
	idx := slices.IndexFunc(list, func(nb Notebook) bool { return nb.ID == s.app.state.Session.NotebookID })
	if idx < 0 {
		idx = 0
	}
	idx = ((idx+delta)%len(list) + len(list)) % len(list)
	s.Select(list[idx].ID)
}

func (s *NotebookStore) selectID(id string) {
	a := s.app
	if id == a.state.Session.NotebookID {
		return
	}
	a.state.Session.NotebookID = id
	a.Tasks.subscribe(id)
}

func (s *NotebookStore) Create(name string) {
	a := s.app
	name = strings.TrimSpace(name)
	acct := a.state.Session.Account
	if name == "" || acct == nil {
		return
	}

	nb := Notebook{
		ID:        newID(),
		OwnerID:   acct.ID,
		Name:      name,
		Order:     len(a.state.Notebooks),
		CreatedAt: a.now(),
	}
	epoch := a.state.Session.epoch
	a.sched.Go(func() {
		err := a.store.PutNotebook(a.ctx, nb)
		a.sched.Post(func() {
			if !a.current(epoch) {
				return
			}
			if err != nil {
				a.logger.Error("NotebookStore", "Failed to create notebook", map[string]interface{}{"error": err.Error()})
				a.ui.Alert(msgCreateNotebookFailed)
				return
			}
			if a.state.hasNotebook(nb.ID) {
				s.Select(nb.ID)
				return
			}
			s.pending = nb.ID
		})
	})
}

// Delete asks for confirmation and then removes the notebook and its tasks.
// The last notebook of an account cannot be deleted.
func (s *NotebookStore) Delete(id string) {
	a := s.app
	if !s.canDelete(id) {
		return
	}
	a.ui.Confirm(msgConfirmDeleteNotebook, func() { s.confirmDelete(id) })
}

func (s *NotebookStore) canDelete(id string) bool {
	a := s.app
	return a.state.Session.Account != nil && len(a.state.Notebooks) > 1 && a.state.hasNotebook(id)
}

func (s *NotebookStore) confirmDelete(id string) {
	a := s.app
	if !s.canDelete(id) {
		return
	}

	epoch := a.state.Session.epoch
	a.sched.Go(func() {
		err := a.store.DeleteNotebook(a.ctx, id)
		a.sched.Post(func() {
			if !a.current(epoch) {
				return
			}
			if err != nil {
				a.logger.Error("NotebookStore", "Failed to delete notebook", map[string]interface{}{
					"notebook_id": id,
					"error":       err.Error(),
				})
				a.ui.Alert(msgDeleteNotebookFailed)
				return
			}
			if a.state.Session.NotebookID != id {
				return
			}
			for _, nb := range a.state.Notebooks {
				if nb.ID != id {
					s.selectID(nb.ID)
					a.render()
					return
				}
			}
		})
	})
}
