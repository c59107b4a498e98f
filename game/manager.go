package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wordle-arena-server/gameerrors"
	"wordle-arena-server/words"
)

// Manager owns the solo sessions (classic and adversarial), keyed by
// game id and scoped to the identity that created them. Multiplayer
// sessions live inside rooms and never pass through here.
type Manager struct {
	mu    sync.Mutex
	games map[string]*soloGame

	dict        *words.List
	maxRounds   int
	idleTimeout time.Duration
}

type soloGame struct {
	owner   string
	session *GameSession
}

// NewManager creates a Manager. idleTimeout bounds how long an
// untouched session survives before the janitor evicts it.
func NewManager(dict *words.List, maxRounds int, idleTimeout time.Duration) *Manager {
	return &Manager{
		games:       make(map[string]*soloGame),
		dict:        dict,
		maxRounds:   maxRounds,
		idleTimeout: idleTimeout,
	}
}

// NewGame creates a session for owner and returns its snapshot.
func (m *Manager) NewGame(owner string, mode Mode) Snapshot {
	maxRounds := m.maxRounds
	if mode == Adversarial {
		maxRounds = 0
	}
	sess := NewSession(mode, m.dict, "", maxRounds)

	m.mu.Lock()
	m.games[sess.ID] = &soloGame{owner: owner, session: sess}
	m.mu.Unlock()

	return sess.Snapshot()
}

// Submit applies a guess to the owner's session.
func (m *Manager) Submit(owner, gameID, word string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[gameID]
	if !ok || g.owner != owner {
		return Snapshot{}, gameerrors.ErrGameNotFound
	}
	if _, err := g.session.SubmitGuess(word); err != nil {
		return Snapshot{}, err
	}
	return g.session.Snapshot(), nil
}

// Get returns the current snapshot of the owner's session.
func (m *Manager) Get(owner, gameID string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[gameID]
	if !ok || g.owner != owner {
		return Snapshot{}, gameerrors.ErrGameNotFound
	}
	return g.session.Snapshot(), nil
}

// Delete removes the owner's session.
func (m *Manager) Delete(owner, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.games[gameID]
	if !ok || g.owner != owner {
		return gameerrors.ErrGameNotFound
	}
	delete(m.games, gameID)
	return nil
}

// Count returns the number of live solo sessions (for health checks).
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

// Run sweeps idle sessions until ctx is cancelled. Should be run as a
// goroutine.
func (m *Manager) Run(ctx context.Context) {
	interval := m.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, g := range m.games {
		if now.Sub(g.session.LastActive) > m.idleTimeout {
			slog.Info("evicting idle game", "tag", "games", "gameId", id, "mode", g.session.Mode.String())
			delete(m.games, id)
		}
	}
}
