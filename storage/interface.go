package storage

import (
	"context"

	"wordle-arena-server/room"
)

// MatchStore abstracts persistence for match history and player stats.
// Implementations can be swapped for testing (mocks) or different backends.
type MatchStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]MatchRecord, error)
	GetStats(ctx context.Context, userID string) (*PlayerStats, error)

	// Write
	InsertMatchResult(ctx context.Context, res room.Result) error

	// Lifecycle
	Close()
}

// Ensure *Store implements MatchStore at compile time.
var _ MatchStore = (*Store)(nil)
