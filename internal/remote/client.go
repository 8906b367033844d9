// Package remote talks to the notefiber-todo API. Client implements both
// app.AuthProvider and app.DocumentStore.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"notefiber-todo/internal/app"
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Client struct {
	baseURL string
	timeout time.Duration
	logger  logger.ILogger

	mu        sync.RWMutex
	token     string
	account   *app.Account
	listeners map[int]func(*app.Account)
	nextID    int

	live *liveClient
}

var (
	_ app.AuthProvider  = (*Client)(nil)
	_ app.DocumentStore = (*Client)(nil)
	_ app.LiveNotifier  = (*Client)(nil)
)

func New(baseURL string, timeout time.Duration, log logger.ILogger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		logger:    log,
		listeners: make(map[int]func(*app.Account)),
	}
	c.live = newLiveClient(c.liveURL(), timeout, log)
	return c
}

func (c *Client) liveURL() string {
	u := c.baseURL + "/api/live"
	if rest, ok := strings.CutPrefix(u, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "ws://" + rest
	}
	return u
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one request and decodes the envelope's data into out.
// A non-2xx answer becomes an *apperror.Error carrying the server message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if tok := c.currentToken(); tok != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+tok)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(c.requestTimeout(ctx))
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	var env dto.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		if code >= http.StatusBadRequest {
			return apperror.New(code, http.StatusText(code))
		}
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	if code >= http.StatusBadRequest || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(code)
		}
		return apperror.New(code, msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	return timeout
}

// OnLiveLost registers fn for connections that break while live queries are
// attached. Resets caused by sign-in or sign-out do not count. Only the
// latest fn is kept.
func (c *Client) OnLiveLost(fn func(error)) (cancel func()) {
	c.live.setOnLost(fn)
	return func() { c.live.setOnLost(nil) }
}

// Close drops the live connection.
func (c *Client) Close() {
	c.live.reset()
}

func isNotFound(err error) bool {
	return apperror.StatusOf(err) == http.StatusNotFound
}
