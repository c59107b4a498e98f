package spell

import (
	"time"

	"wordle-arena-server/room"
)

// WrongSpell scrambles the opponent's next submitted letters: the room
// replaces each one with a uniformly random letter before scoring. The
// substitution happens server-side so a modified client cannot bypass
// it.
type WrongSpell struct {
	Letters int
}

func (s *WrongSpell) ID() string   { return "WRONG" }
func (s *WrongSpell) Name() string { return "Wrong" }

func (s *WrongSpell) Description() string {
	return "Scrambles the next letters your opponent submits."
}

func (s *WrongSpell) Effect(now time.Time) room.ActiveEffect {
	return room.ActiveEffect{
		Kind:             room.EffectScrambled,
		RemainingLetters: s.Letters,
	}
}
