package app

import (
	"slices"
	"strings"
)

// TaskStore mirrors the tasks of the selected notebook.
type TaskStore struct {
	app *App
	sub Subscription
	gen uint64
}

// subscribe replaces the live query. Opening and cancelling run off the
// loop; gen rejects callbacks and handles that belong to an older query.
func (s *TaskStore) subscribe(notebookID string) {
	a := s.app
	s.detach()
	a.state.Tasks = nil
	a.state.Stats = Stats{}
	if notebookID == "" {
		return
	}
	gen := s.gen

	a.sched.Go(func() {
		sub, err := a.store.WatchTasks(notebookID, func(list []Task) {
			a.sched.Post(func() {
				if gen != s.gen {
					return
				}
				s.apply(list)
			})
		})
		a.sched.Post(func() {
			if err != nil {
				a.logger.Error("TaskStore", "Failed to subscribe to tasks", map[string]interface{}{
					"notebook_id": notebookID,
					"error":       err.Error(),
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

func (s *TaskStore) detach() {
	if s.sub != nil {
		s.app.sched.Go(s.sub.Cancel)
		s.sub = nil
	}
	s.gen++
}

func (s *TaskStore) apply(list []Task) {
	a := s.app
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(x, y Task) int { return x.CreatedAt.Compare(y.CreatedAt) })
	a.state.Tasks = sorted
	a.state.Stats = computeStats(sorted)
	a.render()
}

func (s *TaskStore) Add(text string) {
	a := s.app
	acct := a.state.Session.Account
	notebookID := a.state.Session.NotebookID
	if acct == nil || notebookID == "" {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		a.ui.Shake()
		return
	}

	s.write(Task{
		ID:         newID(),
		OwnerID:    acct.ID,
		NotebookID: notebookID,
		Text:       text,
		CreatedAt:  a.now(),
	})
}

// Toggle flips the completion flag in place and writes the whole record back.
func (s *TaskStore) Toggle(id string) {
	a := s.app
	idx := slices.IndexFunc(a.state.Tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return
	}
	a.state.Tasks[idx].Completed = !a.state.Tasks[idx].Completed
	a.state.Stats = computeStats(a.state.Tasks)
	task := a.state.Tasks[idx]

	s.write(task)
	if task.Completed {
		a.ui.Celebrate()
	}
	a.render()
}

// Remove deletes without confirmation.
func (s *TaskStore) Remove(id string) {
	a := s.app
	a.sched.Go(func() {
		if err := a.store.DeleteTask(a.ctx, id); err != nil {
			a.logger.Error("TaskStore", "Failed to delete task", map[string]interface{}{
				"task_id": id,
				"error":   err.Error(),
			})
		}
	})
}

func (s *TaskStore) write(task Task) {
	a := s.app
	a.sched.Go(func() {
		if err := a.store.PutTask(a.ctx, task); err != nil {
			a.logger.Error("TaskStore", "Failed to save task", map[string]interface{}{
				"task_id": task.ID,
				"error":   err.Error(),
			})
		}
	})
}
