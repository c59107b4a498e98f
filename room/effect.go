package room

import "time"

// EffectKind tags the active debuff on a slot. A slot carries at most
// one effect at a time; a new cast replaces whatever was there.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectBlinded
	EffectScrambled
	EffectLocked
)

// String returns the protocol string for an EffectKind.
func (k EffectKind) String() string {
	switch k {
	case EffectBlinded:
		return "blinded"
	case EffectScrambled:
		return "scrambled"
	case EffectLocked:
		return "input_locked"
	default:
		return "none"
	}
}

// ActiveEffect is the live consequence of a cast spell on a target
// slot. Blinded and Locked are time-bounded; Scrambled counts down
// submitted letters.
type ActiveEffect struct {
	Kind             EffectKind
	ExpiresAt        time.Time
	RemainingLetters int
}

// normalize clears the effect if its time or letter budget ran out.
// Expiry is server-authoritative: every mutating call runs this before
// consulting the effect, so a late timer can never matter.
func (e *ActiveEffect) normalize(now time.Time) {
	switch e.Kind {
	case EffectBlinded, EffectLocked:
		if !now.Before(e.ExpiresAt) {
			*e = ActiveEffect{}
		}
	case EffectScrambled:
		if e.RemainingLetters <= 0 {
			*e = ActiveEffect{}
		}
	}
}

// EffectView is the client-facing representation of an ActiveEffect.
type EffectView struct {
	Kind             string `json:"kind"`
	ExpiresAtUnixMs  int64  `json:"expiresAtUnixMs,omitempty"`
	RemainingLetters int    `json:"remainingLetters,omitempty"`
}

// View builds the client view of the effect as of now.
func (e ActiveEffect) View(now time.Time) EffectView {
	e.normalize(now)
	v := EffectView{Kind: e.Kind.String()}
	switch e.Kind {
	case EffectBlinded, EffectLocked:
		v.ExpiresAtUnixMs = e.ExpiresAt.UnixMilli()
	case EffectScrambled:
		v.RemainingLetters = e.RemainingLetters
	}
	return v
}
