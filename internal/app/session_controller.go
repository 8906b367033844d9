package app

import (
	"strings"

	"notefiber-todo/internal/constant"
)

const (
	msgFillAllFields = "Please fill in all fields"
)

// SessionController drives the sign-in, sign-up and sign-out flows and
// reacts to auth-state changes.
type SessionController struct {
	app *App
}

func (c *SessionController) SetMode(mode AuthMode) {
	a := c.app
	if a.state.Auth.Busy {
		return
	}
	a.state.Auth.Mode = mode
	a.state.Auth.Error = ""
	a.render()
}

func (c *SessionController) SignIn(email, password string) {
	a := c.app
	if a.state.Auth.Busy {
		return
	}
	email = strings.TrimSpace(email)
	if err := validateSignIn(email, password); err != nil {
		c.formError(err)
		return
	}

	c.startSubmit()
	a.sched.Go(func() {
		_, err := a.auth.SignIn(a.ctx, email, password)
		a.sched.Post(func() { c.finishSubmit(err) })
	})
}

func (c *SessionController) SignUp(name, email, password string) {
	a := c.app
	if a.state.Auth.Busy {
		return
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateSignUp(name, email, password); err != nil {
		c.formError(err)
		return
	}

	c.startSubmit()
	now := a.now()
	a.sched.Go(func() {
		acct, err := a.auth.SignUp(a.ctx, email, password)
		if err != nil {
			a.sched.Post(func() { c.finishSubmit(err) })
			return
		}

		profile := Account{ID: acct.ID, Name: name, Email: email, CreatedAt: now}
		if err := a.store.PutAccount(a.ctx, profile); err != nil {
			c.compensate(err)
			a.sched.Post(func() { c.finishSubmit(err) })
			return
		}

		notebook := Notebook{
			ID:        newID(),
			OwnerID:   acct.ID,
			Name:      constant.DefaultNotebookName,
			Order:     constant.DefaultNotebookOrder,
			CreatedAt: now,
		}
		if err := a.store.PutNotebook(a.ctx, notebook); err != nil {
			c.compensate(err)
			a.sched.Post(func() { c.finishSubmit(err) })
			return
		}

		a.sched.Post(func() {
			if cur := a.state.Session.Account; cur != nil && cur.ID == profile.ID {
				cur.Name = profile.Name
				cur.CreatedAt = profile.CreatedAt
			}
			c.finishSubmit(nil)
		})
	})
}

// compensate removes credentials created by a sign-up whose profile or
// default notebook could not be written. Runs off the loop.
func (c *SessionController) compensate(cause error) {
	a := c.app
	if err := a.auth.DeleteAccount(a.ctx); err != nil {
		a.logger.Error("SessionController", "Failed to roll back incomplete sign-up", map[string]interface{}{
			"cause": cause.Error(),
			"error": err.Error(),
		})
	}
}

func (c *SessionController) SignOut() {
	a := c.app
	a.sched.Go(func() {
		if err := a.auth.SignOut(a.ctx); err != nil {
			a.logger.Error("SessionController", "Sign out failed", map[string]interface{}{"error": err.Error()})
		}
	})
}

func (c *SessionController) handleAuthState(acct *Account) {
	a := c.app
	a.state.Session.epoch++
	a.Tasks.detach()
	a.Notebooks.detach()
	a.state.Notebooks = nil
	a.state.Tasks = nil
	a.state.Stats = Stats{}
	a.state.Session.Reset()

	if acct == nil {
		a.state.Auth = AuthForm{Open: true, Mode: a.state.Auth.Mode}
		a.render()
		return
	}

	a.state.Session.Account = acct
	a.state.Auth.Open = false
	a.state.Auth.Error = ""
	a.render()

	epoch := a.state.Session.epoch
	id := acct.ID
	a.sched.Go(func() {
		profile, err := a.store.GetAccount(a.ctx, id)
		a.sched.Post(func() {
			if !a.current(epoch) {
				return
			}
			if err != nil {
				a.logger.Warn("SessionController", "Failed to load account profile", map[string]interface{}{
					"user_id": id,
					"error":   err.Error(),
				})
			} else if profile != nil {
				cur := a.state.Session.Account
				cur.Name = profile.Name
				cur.CreatedAt = profile.CreatedAt
				if profile.Email != "" {
					cur.Email = profile.Email
				}
			}
			a.render()
			a.Notebooks.subscribe(id)
		})
	})
}

func (c *SessionController) formError(err error) {
	a := c.app
	a.state.Auth.Error = err.Error()
	a.render()
}

func (c *SessionController) startSubmit() {
	a := c.app
	a.state.Auth.Busy = true
	a.state.Auth.Error = ""
	a.render()
}

func (c *SessionController) finishSubmit(err error) {
	a := c.app
	a.state.Auth.Busy = false
	if err != nil {
		a.state.Auth.Error = err.Error()
	} else {
		a.state.Auth.Open = false
		a.state.Auth.Error = ""
	}
	a.render()
}

func validateSignIn(email, password string) error {
	if email == "" || password == "" {
		return validation(msgFillAllFields)
	}
	return nil
}

func validateSignUp(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return validation(msgFillAllFields)
	}
	if len(password) < constant.MinPasswordLength {
		return validation("Password must be at least %d characters", constant.MinPasswordLength)
	}
	return nil
}
