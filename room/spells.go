package room

import "time"

// SpellDef is a spell as seen by the room: identity plus a factory for
// the effect it lays on the opposing slot. The spell package implements
// the concrete spells and registry; the indirection keeps this package
// free of a dependency on it.
type SpellDef struct {
	ID          string
	Name        string
	Description string

	// Effect builds the ActiveEffect applied to the target when the
	// spell is cast at the given instant.
	Effect func(now time.Time) ActiveEffect
}

// SpellProvider abstracts the spell registry.
type SpellProvider interface {
	Get(id string) (SpellDef, bool)
	All() []SpellDef
}
