package game

import (
	"errors"
	"testing"
	"time"

	"wordle-arena-server/gameerrors"
)

func TestManager_NewGameAndGet(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Hour)

	snap := m.NewGame("user-1", Classic)
	if snap.Mode != "classic" || snap.MaxRounds != 6 {
		t.Errorf("snapshot mode=%s maxRounds=%d", snap.Mode, snap.MaxRounds)
	}

	got, err := m.Get("user-1", snap.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GameID != snap.GameID {
		t.Errorf("Get returned game %s, want %s", got.GameID, snap.GameID)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestManager_AdversarialGamesAreUncapped(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Hour)
	snap := m.NewGame("user-1", Adversarial)
	// The visible cap tracks the board instead of the config.
	if snap.MaxRounds != 1 {
		t.Errorf("fresh adversarial MaxRounds = %d, want 1", snap.MaxRounds)
	}
}

func TestManager_OwnershipIsEnforced(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Hour)
	snap := m.NewGame("owner", Classic)

	if _, err := m.Get("intruder", snap.GameID); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("Get by intruder: expected ErrGameNotFound, got %v", err)
	}
	if _, err := m.Submit("intruder", snap.GameID, "BRAIN"); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("Submit by intruder: expected ErrGameNotFound, got %v", err)
	}
	if err := m.Delete("intruder", snap.GameID); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("Delete by intruder: expected ErrGameNotFound, got %v", err)
	}
	if m.Count() != 1 {
		t.Error("intruder calls must not remove the game")
	}
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Hour)
	snap := m.NewGame("user-1", Classic)

	if err := m.Delete("user-1", snap.GameID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get("user-1", snap.GameID); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound after delete, got %v", err)
	}
	if err := m.Delete("user-1", snap.GameID); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("double delete: expected ErrGameNotFound, got %v", err)
	}
}

func TestManager_SubmitUnknownGame(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Hour)
	if _, err := m.Submit("user-1", "missing", "BRAIN"); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestManager_SweepEvictsIdleGames(t *testing.T) {
	m := NewManager(testDict(t, "ALLOW", "BRAIN"), 6, time.Minute)
	fresh := m.NewGame("user-1", Classic)
	stale := m.NewGame("user-1", Classic)

	m.mu.Lock()
	m.games[stale.GameID].session.LastActive = time.Now().Add(-2 * time.Minute)
	m.mu.Unlock()

	m.sweep(time.Now())

	if _, err := m.Get("user-1", stale.GameID); !errors.Is(err, gameerrors.ErrGameNotFound) {
		t.Errorf("stale game survived the sweep: %v", err)
	}
	if _, err := m.Get("user-1", fresh.GameID); err != nil {
		t.Errorf("fresh game was evicted: %v", err)
	}
}
