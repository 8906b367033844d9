package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/entity"
	"notefiber-todo/internal/pkg/apperror"
	"notefiber-todo/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel  = "cluster_changes"
	snapshotTimeout = 5 * time.Second
)

// SnapshotSource evaluates live queries; service.IFeedService implements it.
type SnapshotSource interface {
	Validate(userId uuid.UUID, req dto.LiveRequest) error
	Snapshot(ctx context.Context, userId uuid.UUID, req dto.LiveRequest) (*dto.LiveFrame, error)
}

// MatchFunc reports whether a change can alter a live query's result.
type MatchFunc func(req dto.LiveRequest, change entity.Change) bool

type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb        *redis.Client
	instanceID string

	source SnapshotSource
	match  MatchFunc
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, source SnapshotSource, match MatchFunc, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		source:     source,
		match:      match,
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.UserID]
			for i, c := range clients {
				if c == client {
					h.clients[client.UserID] = append(clients[:i:i], clients[i+1:]...)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
			client.close()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
		}
	}
}

// Subscribe registers a live query for the client and sends its first snapshot.
func (h *Hub) Subscribe(c *Client, req dto.LiveRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := h.source.Validate(c.UserID, req); err != nil {
		c.enqueueFrame(errorFrame(req.SubId, err))
		return
	}
	c.subs[req.SubId] = req
	h.refreshLocked(c, req)
}

func (h *Hub) Unsubscribe(c *Client, subId string) {
	c.mu.Lock()
	delete(c.subs, subId)
	c.mu.Unlock()
}

// Dispatch re-evaluates affected live queries here and on every other instance.
func (h *Hub) Dispatch(change entity.Change) {
	h.deliver(change)

	if h.rdb != nil && change.Origin == "" {
		change.Origin = h.instanceID
		payload, err := json.Marshal(change)
		if err != nil {
			return
		}
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver refreshes matching subscriptions of the owner's local clients only;
// a live query can never target another account's rows.
func (h *Hub) deliver(change entity.Change) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[change.UserId]...)
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		for _, req := range c.subs {
			if h.match(req, change) {
				h.refreshLocked(c, req)
			}
		}
		c.mu.Unlock()
	}
}

// refreshLocked must be called with c.mu held so frames leave in query order.
func (h *Hub) refreshLocked(c *Client, req dto.LiveRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	frame, err := h.source.Snapshot(ctx, c.UserID, req)
	if err != nil {
		h.logger.Warn("Hub", "Snapshot failed", map[string]interface{}{
			"user_id": c.UserID,
			"sub_id":  req.SubId,
			"error":   err.Error(),
		})
		frame = errorFrame(req.SubId, err)
	}
	c.enqueueFrame(frame)
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var change entity.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if change.Origin == h.instanceID {
				continue
			}
			h.deliver(change)
		}
	}
}

func errorFrame(subId string, err error) *dto.LiveFrame {
	message := "internal server error"
	if apperror.StatusOf(err) < 500 {
		message = err.Error()
	}
	return &dto.LiveFrame{Type: dto.LiveTypeError, SubId: subId, Message: message}
}
