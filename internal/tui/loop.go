package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type drainMsg struct{}

// Loop runs continuations on the bubbletea event loop. Post never blocks,
// so it is safe from inside Update and from live-query goroutines alike.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Go(fn func()) {
	go fn()
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until something is posted. Re-issue it after every drainMsg.
func (l *Loop) Wait() tea.Cmd {
	return func() tea.Msg {
		<-l.wake
		return drainMsg{}
	}
}

// Drain runs queued work in FIFO order, including work posted while draining.
func (l *Loop) Drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
	}
}
