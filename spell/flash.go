package spell

import (
	"time"

	"wordle-arena-server/room"
)

// FlashSpell blinds the opponent's board for a few seconds. Purely a
// presentation instruction: the scored game state is untouched, clients
// just hide the tiles until the expiry in the snapshot passes.
type FlashSpell struct {
	Duration time.Duration
}

func (s *FlashSpell) ID() string   { return "FLASH" }
func (s *FlashSpell) Name() string { return "Flash" }

func (s *FlashSpell) Description() string {
	return "Blinds your opponent's board for a few seconds."
}

func (s *FlashSpell) Effect(now time.Time) room.ActiveEffect {
	return room.ActiveEffect{
		Kind:      room.EffectBlinded,
		ExpiresAt: now.Add(s.Duration),
	}
}
