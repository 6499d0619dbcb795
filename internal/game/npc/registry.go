package npc

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// ErrUnknownTemplate is returned when a creature is requested by a name that
// no registered template carries.
var ErrUnknownTemplate = errors.New("npc: unknown creature template")

// Registry indexes creature templates by ID and display name and spawns
// fresh creatures from them. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	roller  *dice.Roller
	byKey   map[string]*Template // ID and display name → template
	order   []*Template
	spawned atomic.Uint64
}

// NewRegistry creates an empty Registry that rolls spawn-time values with r.
//
// Precondition: r must be non-nil.
func NewRegistry(r *dice.Roller) *Registry {
	return &Registry{roller: r, byKey: make(map[string]*Template)}
}

// LoadRegistry reads every template in dir into a new Registry.
//
// Postcondition: Returns a Registry holding all templates, or an error.
func LoadRegistry(dir string, r *dice.Roller) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	reg := NewRegistry(r)
	for _, t := range templates {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds tmpl to the registry.
//
// Precondition: tmpl must be non-nil and valid.
// Postcondition: Returns an error if the ID or name collides with a registered template.
func (r *Registry) Register(tmpl *Template) error {
	if tmpl == nil {
		return errors.New("npc.Registry.Register: tmpl must not be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{tmpl.ID, tmpl.Name} {
		if _, dup := r.byKey[key]; dup {
			return fmt.Errorf("npc.Registry.Register: %q already registered", key)
		}
	}
	r.byKey[tmpl.ID] = tmpl
	r.byKey[tmpl.Name] = tmpl
	r.order = append(r.order, tmpl)
	return nil
}

// Get returns the template registered under an ID or display name.
//
// Postcondition: Returns (tmpl, true) if found, or (nil, false) otherwise.
func (r *Registry) Get(key string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.byKey[key]
	return tmpl, ok
}

// Names returns the display names of all templates in registration order.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	for i, t := range r.order {
		out[i] = t.Name
	}
	return out
}

// Spawn creates a fresh creature from the template registered under key.
// It satisfies combat.Spawner for the summon effect.
//
// Postcondition: Returns an error wrapping ErrUnknownTemplate if key is not registered.
func (r *Registry) Spawn(key string) (*combat.Combatant, error) {
	tmpl, ok := r.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	r.spawned.Add(1)
	return NewInstance(tmpl, r.roller), nil
}

// Factory returns a zero-argument constructor for the template under key,
// failing immediately if key is unknown.
func (r *Registry) Factory(key string) (func() *combat.Combatant, error) {
	tmpl, ok := r.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
	}
	return func() *combat.Combatant {
		r.spawned.Add(1)
		return NewInstance(tmpl, r.roller)
	}, nil
}

// Spawned returns the number of creatures created so far.
func (r *Registry) Spawned() uint64 { return r.spawned.Load() }

var _ combat.Spawner = (*Registry)(nil)
