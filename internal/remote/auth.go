package remote

import (
	"context"

	"notefiber-todo/internal/app"
	"notefiber-todo/internal/dto"

	"github.com/gofiber/fiber/v2"
)

func (c *Client) SignIn(ctx context.Context, email, password string) (app.Account, error) {
	var res dto.AuthResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &res); err != nil {
		return app.Account{}, err
	}
	return c.establish(res), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (app.Account, error) {
	var res dto.AuthResponse
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: email, Password: password}, &res); err != nil {
		return app.Account{}, err
	}
	return c.establish(res), nil
}

// SignOut always forgets the local session; the server call is best effort.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, fiber.MethodPost, "/api/auth/logout", nil, nil)
	c.clear()
	return err
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.do(ctx, fiber.MethodDelete, "/api/auth/account", nil, nil); err != nil {
		return err
	}
	c.clear()
	return nil
}

// OnStateChange calls fn with the current identity right away and again on
// every change until cancel is called.
func (c *Client) OnStateChange(fn func(*app.Account)) (cancel func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	current := copyAccount(c.account)
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) establish(res dto.AuthResponse) app.Account {
	acct := app.Account{ID: res.User.Id.String(), Email: res.User.Email}

	c.live.reset()
	c.mu.Lock()
	c.token = res.AccessToken
	c.account = &acct
	c.live.setToken(res.AccessToken)
	c.mu.Unlock()

	c.notify()
	return acct
}

func (c *Client) clear() {
	c.live.reset()
	c.mu.Lock()
	c.token = ""
	c.account = nil
	c.live.setToken("")
	c.mu.Unlock()

	c.notify()
}

func (c *Client) notify() {
	c.mu.RLock()
	current := c.account
	fns := make([]func(*app.Account), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(copyAccount(current))
	}
}

func copyAccount(a *app.Account) *app.Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
