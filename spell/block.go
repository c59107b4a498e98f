package spell

import (
	"time"

	"wordle-arena-server/room"
)

// BlockSpell locks the opponent's input for a few seconds. While
// locked, the room rejects their guesses and casts with InputBlocked.
type BlockSpell struct {
	Duration time.Duration
}

func (s *BlockSpell) ID() string   { return "BLOCK" }
func (s *BlockSpell) Name() string { return "Block" }

func (s *BlockSpell) Description() string {
	return "Locks your opponent's input for a few seconds."
}

func (s *BlockSpell) Effect(now time.Time) room.ActiveEffect {
	return room.ActiveEffect{
		Kind:      room.EffectLocked,
		ExpiresAt: now.Add(s.Duration),
	}
}
