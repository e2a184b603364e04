package irc

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ircbridge/internal/app/adapters/metrics"
	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

type handle struct {
	id         string
	cfg        ports.ConnectionConfig
	storageKey string
	inbox      *Inbox
	session    *Session
}

// Registry is the process-wide table of live sessions. The lock guards
// only the map; no I/O ever happens under it.
type Registry struct {
	log        logger.Logger
	sink       ports.EventSinkPort
	scrollback ports.ScrollbackPort
	dial       DialFunc

	mu    sync.Mutex
	conns map[string]*handle
}

// New builds a registry. A nil dial falls back to DefaultDial; tests
// inject pipes here.
func New(log logger.Logger, sink ports.EventSinkPort, scrollback ports.ScrollbackPort, dial DialFunc) *Registry {
	if dial == nil {
		dial = DefaultDial
	}
	return &Registry{
		log:        log,
		sink:       sink,
		scrollback: scrollback,
		dial:       dial,
		conns:      make(map[string]*handle),
	}
}

// Connect starts a session for cfg, or returns the id of the live
// session already bound to the same identity key. It never waits for
// the dial or handshake.
func (r *Registry) Connect(cfg ports.ConnectionConfig) string {
	key := cfg.StorageKey()

	r.mu.Lock()
	for id, h := range r.conns {
		if h.storageKey == key {
			r.mu.Unlock()
			return id
		}
	}

	id := uuid.NewString()
	inbox := NewInbox()
	s := newSession(id, cfg, r.log, r.sink, r.scrollback, inbox, r.dial)
	r.conns[id] = &handle{id: id, cfg: cfg, storageKey: key, inbox: inbox, session: s}
	metrics.ConnectionsActive.Set(float64(len(r.conns)))
	r.mu.Unlock()

	go s.run()
	return id
}

// Disconnect removes the handle first, so concurrent lookups stop
// seeing it, then signals Quit and emits Disconnected proactively in
// case the worker's own emission is lost.
func (r *Registry) Disconnect(id, reason string) error {
	r.mu.Lock()
	h, ok := r.conns[id]
	if ok {
		delete(r.conns, id)
		metrics.ConnectionsActive.Set(float64(len(r.conns)))
	}
	r.mu.Unlock()

	if !ok {
		return ports.ErrNotFound
	}
	if err := h.inbox.Push(ports.QuitCommand{Reason: reason}); err != nil {
		return err
	}
	r.sink.Emit(ports.EventTopic, ports.DisconnectedEvent{
		ConnectionID: id,
		Reason:       optStr(reason),
	})
	return nil
}

func (r *Registry) Join(id, channel string) error {
	return r.forward(id, ports.JoinCommand{Channel: channel})
}

func (r *Registry) Part(id, channel, reason string) error {
	return r.forward(id, ports.PartCommand{Channel: channel, Reason: reason})
}

func (r *Registry) Privmsg(id, target, message string) error {
	return r.forward(id, ports.PrivmsgCommand{Target: target, Message: message})
}

func (r *Registry) SetTopic(id, channel string, topic *string) error {
	return r.forward(id, ports.SetTopicCommand{Channel: channel, Topic: topic})
}

// List returns the ids of all registered sessions, order unspecified.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	return ids
}

// FindByConfig reports the live session bound to cfg's identity key.
func (r *Registry) FindByConfig(cfg ports.ConnectionConfig) (string, bool) {
	key := cfg.StorageKey()

	r.mu.Lock()
	defer r.mu.Unlock()

	for id, h := range r.conns {
		if h.storageKey == key {
			return id, true
		}
	}
	return "", false
}

// StorageKey resolves a live id to its scrollback partition key.
func (r *Registry) StorageKey(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.conns[id]
	if !ok {
		return "", ports.ErrNotFound
	}
	return h.storageKey, nil
}

// CloseAll disconnects every live session and waits for the workers
// to wind down, so the QUIT lines reach the wire before the process
// exits. The wait is bounded; a hung socket cannot stall shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	handles := make([]*handle, 0, len(r.conns))
	for _, h := range r.conns {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		_ = r.Disconnect(h.id, reason)
	}

	deadline := time.After(3 * time.Second)
	for _, h := range handles {
		select {
		case <-h.session.done:
		case <-deadline:
			r.log.Warn("shutdown timed out waiting for sessions")
			return
		}
	}
}

func (r *Registry) forward(id string, cmd ports.ConnectionCommand) error {
	r.mu.Lock()
	h, ok := r.conns[id]
	r.mu.Unlock()

	if !ok {
		return ports.ErrNotFound
	}

	err := h.inbox.Push(cmd)
	if errors.Is(err, ports.ErrInboxClosed) {
		// The worker died on its own; reap the stale handle so later
		// callers get a clean NotFound.
		r.mu.Lock()
		if r.conns[id] == h {
			delete(r.conns, id)
			metrics.ConnectionsActive.Set(float64(len(r.conns)))
		}
		r.mu.Unlock()
	}
	return err
}
