package sessions

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"wordle-arena-server/gameerrors"
	"wordle-arena-server/wsutil"
)

// Session is one live connection-liveness record. Distinct from a game
// session: this tracks only who is connected and when they last proved
// it.
type Session struct {
	UserID        string
	ConnID        string
	Send          chan []byte
	LastHeartbeat time.Time
}

// ForcedLogoutMsg is sent to a superseded connection just before it is
// dropped.
type ForcedLogoutMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Registry enforces at most one live session per identity and evicts
// sessions whose heartbeats stop. It knows nothing about game state;
// eviction feeds the same disconnect path the rooms consume.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]*Session

	timeout       time.Duration
	sweepInterval time.Duration

	// OnEvict is called (outside the lock) for every session removed by
	// the sweep, with reason "timeout". Optional.
	OnEvict func(userID string)

	// Now is the clock; tests override it.
	Now func() time.Time
}

// NewRegistry creates a registry. sweepInterval is how often the sweep
// runs; timeout is how stale a heartbeat may be before eviction.
func NewRegistry(timeout, sweepInterval time.Duration) *Registry {
	return &Registry{
		byUser:        make(map[string]*Session),
		timeout:       timeout,
		sweepInterval: sweepInterval,
		Now:           time.Now,
	}
}

// Register installs a session for the identity. If a live session
// already exists it is superseded: the old connection gets a forced
// logout notice and its channel is dropped from the registry. Returns
// the superseded session, if any.
func (r *Registry) Register(userID, connID string, send chan []byte) *Session {
	r.mu.Lock()
	old := r.byUser[userID]
	r.byUser[userID] = &Session{
		UserID:        userID,
		ConnID:        connID,
		Send:          send,
		LastHeartbeat: r.Now(),
	}
	r.mu.Unlock()

	if old != nil {
		slog.Info("session superseded", "tag", "sessions", "user", userID, "oldConn", old.ConnID)
		notice, _ := json.Marshal(ForcedLogoutMsg{
			Type:    "forced_logout",
			Message: "You signed in from another connection.",
		})
		wsutil.SafeSend(old.Send, notice)
	}
	return old
}

// Heartbeat refreshes the identity's last-seen timestamp.
func (r *Registry) Heartbeat(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	if !ok {
		return gameerrors.ErrUnknownSession
	}
	s.LastHeartbeat = r.Now()
	return nil
}

// Unregister removes the identity's session, but only when connID still
// matches: a stale connection closing must not tear down its
// replacement. Reports whether a session was removed.
func (r *Registry) Unregister(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	if !ok || s.ConnID != connID {
		return false
	}
	delete(r.byUser, userID)
	return true
}

// LiveConn reports whether connID is the identity's live connection.
// A superseded connection fails this check and must be refused.
func (r *Registry) LiveConn(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byUser[userID]
	return ok && s.ConnID == connID
}

// Live reports whether the identity currently has a session.
func (r *Registry) Live(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byUser[userID]
	return ok
}

// Count returns the number of live sessions (for health checks).
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

// Run sweeps stale sessions until ctx is cancelled. Should be run as a
// goroutine.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep evicts every session whose heartbeat is older than the timeout
// and notifies OnEvict for each.
func (r *Registry) Sweep() {
	now := r.Now()

	r.mu.Lock()
	var evicted []string
	for userID, s := range r.byUser {
		if now.Sub(s.LastHeartbeat) > r.timeout {
			delete(r.byUser, userID)
			evicted = append(evicted, userID)
		}
	}
	r.mu.Unlock()

	for _, userID := range evicted {
		slog.Info("session evicted", "tag", "sessions", "user", userID, "reason", "timeout")
		if r.OnEvict != nil {
			r.OnEvict(userID)
		}
	}
}
