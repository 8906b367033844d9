package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"notefiber-todo/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// UserID associated with this connection
	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	// mu guards subs and closed, and orders snapshot frames.
	mu     sync.Mutex
	subs   map[string]dto.LiveRequest
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
		subs:   make(map[string]dto.LiveRequest),
	}
}

// enqueueFrame must not block the hub; a client that cannot keep up is dropped.
func (c *Client) enqueueFrame(frame *dto.LiveFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (c *Client) enqueue(data []byte) {
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"user_id": c.UserID})
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = make(map[string]dto.LiveRequest)
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// handle applies one client frame.
func (c *Client) handle(raw []byte) {
	var req dto.LiveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.mu.Lock()
		c.enqueueFrame(&dto.LiveFrame{Type: dto.LiveTypeError, Message: "malformed frame"})
		c.mu.Unlock()
		return
	}

	switch req.Op {
	case dto.LiveOpSubscribe:
		c.Hub.Subscribe(c, req)
	case dto.LiveOpUnsubscribe:
		c.Hub.Unsubscribe(c, req.SubId)
	default:
		c.mu.Lock()
		c.enqueueFrame(&dto.LiveFrame{Type: dto.LiveTypeError, SubId: req.SubId, Message: "unknown op " + req.Op})
		c.mu.Unlock()
	}
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}
		c.handle(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
// Each frame is its own websocket message; the client decodes one JSON value per message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
