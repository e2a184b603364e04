package irc

import (
	"sync"

	"ircbridge/internal/app/ports"
)

// Inbox is the unbounded command queue between the registry and one
// session worker. Push never blocks; the worker drains it whenever the
// wake channel fires. Closing is one-way and done only by the worker.
type Inbox struct {
	mu     sync.Mutex
	items  []ports.ConnectionCommand
	wake   chan struct{}
	closed bool
}

func NewInbox() *Inbox {
	return &Inbox{wake: make(chan struct{}, 1)}
}

// Push enqueues a command preserving send order. Returns
// ports.ErrInboxClosed once the owning worker has terminated.
func (in *Inbox) Push(cmd ports.ConnectionCommand) error {
	in.mu.Lock()
	if in.closed {
		in.mu.Unlock()
		return ports.ErrInboxClosed
	}
	in.items = append(in.items, cmd)
	in.mu.Unlock()

	select {
	case in.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes the oldest pending command, if any.
func (in *Inbox) Pop() (ports.ConnectionCommand, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if len(in.items) == 0 {
		return nil, false
	}
	cmd := in.items[0]
	in.items = in.items[1:]
	return cmd, true
}

// Wake fires at least once after every Push. The consumer must drain
// with Pop until empty; the channel carries no count.
func (in *Inbox) Wake() <-chan struct{} {
	return in.wake
}

func (in *Inbox) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !in.closed {
		in.closed = true
		in.items = nil
	}
}
