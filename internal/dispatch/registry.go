package dispatch

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Conn is a live client connection able to receive JSON events.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Emitter is the delivery surface injected into services. Delivery is
// at-most-once: events for users without a live connection are dropped.
type Emitter interface {
	EmitToUser(userID string, event Event)
	EmitToRole(role string, event Event)
}

type entry struct {
	conn Conn
	role string
}

// Registry maps user ids to their single live connection. One connection
// per user: registering again replaces and closes the previous one.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]entry
	dropped atomic.Int64
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]entry),
		logger: logger,
	}
}

func (r *Registry) Register(userID, role string, c Conn) {
	r.mu.Lock()
	previous, existed := r.conns[userID]
	r.conns[userID] = entry{conn: c, role: role}
	r.mu.Unlock()

	if existed {
		previous.conn.Close()
	}
	r.logger.Info("client registered", zap.String("userId", userID), zap.String("role", role))
}

// Unregister removes the mapping only if it still points at c, so a stale
// disconnect cannot evict a newer connection.
func (r *Registry) Unregister(userID string, c Conn) {
	r.mu.Lock()
	current, ok := r.conns[userID]
	if ok && current.conn == c {
		delete(r.conns, userID)
	}
	r.mu.Unlock()

	if ok && current.conn == c {
		r.logger.Info("client unregistered", zap.String("userId", userID))
	}
}

func (r *Registry) EmitToUser(userID string, event Event) {
	r.mu.RLock()
	target, ok := r.conns[userID]
	r.mu.RUnlock()

	if !ok {
		r.dropped.Add(1)
		r.logger.Warn("event dropped, no live connection",
			zap.String("userId", userID),
			zap.String("event", event.Name),
		)
		return
	}

	if err := target.conn.WriteJSON(event); err != nil {
		r.dropped.Add(1)
		r.logger.Warn("event write failed",
			zap.String("userId", userID),
			zap.String("event", event.Name),
			zap.Error(err),
		)
	}
}

func (r *Registry) EmitToRole(role string, event Event) {
	r.mu.RLock()
	targets := make([]Conn, 0, len(r.conns))
	for _, e := range r.conns {
		if e.role == role {
			targets = append(targets, e.conn)
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if err := c.WriteJSON(event); err != nil {
			r.dropped.Add(1)
			r.logger.Warn("broadcast write failed", zap.String("event", event.Name), zap.Error(err))
		}
	}
}

// Dropped reports how many events could not be delivered since startup.
func (r *Registry) Dropped() int64 {
	return r.dropped.Load()
}

// Connected reports whether the user currently has a live connection.
func (r *Registry) Connected(userID string) bool {
	r.mu.RLock()
	_, ok := r.conns[userID]
	r.mu.RUnlock()
	return ok
}
