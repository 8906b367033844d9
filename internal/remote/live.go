package remote

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"notefiber-todo/internal/app"
	"notefiber-todo/internal/dto"
	"notefiber-todo/internal/pkg/logger"

	"github.com/fasthttp/websocket"
)

var errNotSignedIn = errors.New("not signed in")

// liveClient multiplexes live queries over one WebSocket. It dials lazily
// with the current token and drops every subscription when the identity
// changes or the connection breaks.
type liveClient struct {
	url     string
	timeout time.Duration
	logger  logger.ILogger

	mu     sync.Mutex
	token  string
	conn   *websocket.Conn
	subs   map[string]func(dto.LiveFrame)
	seq    int
	onLost func(error)
}

func newLiveClient(url string, timeout time.Duration, log logger.ILogger) *liveClient {
	return &liveClient{
		url:     url,
		timeout: timeout,
		logger:  log,
		subs:    make(map[string]func(dto.LiveFrame)),
	}
}

func (l *liveClient) setToken(token string) {
	l.mu.Lock()
	l.token = token
	l.mu.Unlock()
}

func (l *liveClient) setOnLost(fn func(error)) {
	l.mu.Lock()
	l.onLost = fn
	l.mu.Unlock()
}

func (l *liveClient) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
	l.subs = make(map[string]func(dto.LiveFrame))
}

func (l *liveClient) subscribe(req dto.LiveRequest, fn func(dto.LiveFrame)) (app.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	conn, err := l.connLocked()
	if err != nil {
		return nil, err
	}

	l.seq++
	req.Op = dto.LiveOpSubscribe
	req.SubId = "sub-" + strconv.Itoa(l.seq)
	l.subs[req.SubId] = fn

	if err := l.writeLocked(conn, req); err != nil {
		delete(l.subs, req.SubId)
		return nil, err
	}
	return &liveSubscription{live: l, conn: conn, id: req.SubId}, nil
}

func (l *liveClient) connLocked() (*websocket.Conn, error) {
	if l.conn != nil {
		return l.conn, nil
	}
	if l.token == "" {
		return nil, errNotSignedIn
	}

	dialer := websocket.Dialer{HandshakeTimeout: l.timeout}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+l.token)

	conn, _, err := dialer.Dial(l.url, header)
	if err != nil {
		return nil, err
	}
	l.conn = conn
	go l.readLoop(conn)
	return conn, nil
}

// writeLocked bounds every frame write so a stalled server cannot hold mu.
func (l *liveClient) writeLocked(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(l.timeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// readLoop delivers frames while holding mu, so a subscription cancelled
// under mu never sees another callback.
func (l *liveClient) readLoop(conn *websocket.Conn) {
	for {
		var frame dto.LiveFrame
		if err := conn.ReadJSON(&frame); err != nil {
			l.mu.Lock()
			var lost func(error)
			if l.conn == conn {
				l.logger.Warn("LiveClient", "Live connection closed", map[string]interface{}{"error": err.Error()})
				l.conn.Close()
				l.conn = nil
				if len(l.subs) > 0 {
					lost = l.onLost
				}
				l.subs = make(map[string]func(dto.LiveFrame))
			}
			l.mu.Unlock()
			if lost != nil {
				lost(err)
			}
			return
		}

		l.mu.Lock()
		if l.conn != conn {
			l.mu.Unlock()
			return
		}
		switch frame.Type {
		case dto.LiveTypeSnapshot:
			if fn, ok := l.subs[frame.SubId]; ok {
				fn(frame)
			}
		case dto.LiveTypeError:
			l.logger.Warn("LiveClient", "Live query rejected", map[string]interface{}{
				"sub_id":  frame.SubId,
				"message": frame.Message,
			})
		}
		l.mu.Unlock()
	}
}

type liveSubscription struct {
	live *liveClient
	conn *websocket.Conn
	id   string
	once sync.Once
}

func (s *liveSubscription) Cancel() {
	s.once.Do(func() {
		l := s.live
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.conn != s.conn {
			return
		}
		delete(l.subs, s.id)
		if err := l.writeLocked(s.conn, dto.LiveRequest{Op: dto.LiveOpUnsubscribe, SubId: s.id}); err != nil {
			l.logger.Warn("LiveClient", "Failed to unsubscribe", map[string]interface{}{
				"sub_id": s.id,
				"error":  err.Error(),
			})
		}
	})
}
