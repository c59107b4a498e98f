package spell

import (
	"time"

	"wordle-arena-server/config"
	"wordle-arena-server/room"
)

// Spell defines the interface all spells implement.
type Spell interface {
	ID() string
	Name() string
	Description() string
	Effect(now time.Time) room.ActiveEffect
}

// Registry holds all registered spells indexed by ID. It satisfies
// room.SpellProvider.
type Registry struct {
	spells map[string]Spell
	order  []string // registration order for deterministic All()
}

// NewRegistry creates an empty spell registry.
func NewRegistry() *Registry {
	return &Registry{spells: make(map[string]Spell)}
}

// Register adds a spell to the registry.
func (r *Registry) Register(s Spell) {
	id := s.ID()
	if _, exists := r.spells[id]; !exists {
		r.order = append(r.order, id)
	}
	r.spells[id] = s
}

// Get returns the spell definition for the room package.
func (r *Registry) Get(id string) (room.SpellDef, bool) {
	s, ok := r.spells[id]
	if !ok {
		return room.SpellDef{}, false
	}
	return toDef(s), true
}

// All returns every registered spell in registration order.
func (r *Registry) All() []room.SpellDef {
	defs := make([]room.SpellDef, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, toDef(r.spells[id]))
	}
	return defs
}

func toDef(s Spell) room.SpellDef {
	return room.SpellDef{
		ID:          s.ID(),
		Name:        s.Name(),
		Description: s.Description(),
		Effect:      s.Effect,
	}
}

// RegisterAll registers the built-in spells using the given config.
// Call from main so adding a spell only requires registering it here.
func RegisterAll(r *Registry, cfg *config.SpellsConfig) {
	if cfg == nil {
		cfg = &config.SpellsConfig{}
	}
	r.Register(&FlashSpell{Duration: durationMS(cfg.Flash.DurationMS, 3000)})
	r.Register(&WrongSpell{Letters: defaultInt(cfg.Wrong.Letters, 5)})
	r.Register(&BlockSpell{Duration: durationMS(cfg.Block.DurationMS, 3000)})
}

func durationMS(ms, fallback int) time.Duration {
	if ms <= 0 {
		ms = fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func defaultInt(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
