// Package inventory provides weapon definitions, the effect catalog, and the
// loaders for weapon content used by the battle simulator.
package inventory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// Category is the reach class of a weapon.
type Category string

const (
	// CategoryMelee weapons strike adjacent targets and cannot reach flying creatures.
	CategoryMelee Category = "melee"
	// CategoryRanged weapons may target flying creatures.
	CategoryRanged Category = "ranged"
	// CategoryArea weapons are used by death triggers against every enemy.
	CategoryArea Category = "area"
)

// Usage controls when a creature selects a weapon.
type Usage string

const (
	UsageRandom     Usage = "random"
	UsageSequential Usage = "sequential"
	UsageFirstTurn  Usage = "first_turn"
	UsageReserve    Usage = "reserve"
	UsageOnDeath    Usage = "on_death"
)

// Stat names a combatant attribute used by checks.
type Stat string

const (
	StatHeart      Stat = "heart"
	StatSkill      Stat = "skill"
	StatBody       Stat = "body"
	StatDurability Stat = "durability"
)

// Valid reports whether s is one of the four known stats.
func (s Stat) Valid() bool {
	switch s {
	case StatHeart, StatSkill, StatBody, StatDurability:
		return true
	}
	return false
}

// UnlimitedAmmo marks a weapon that never runs dry.
const UnlimitedAmmo = -1

// WeaponDef defines the static properties of a weapon loaded from YAML.
type WeaponDef struct {
	Name        string   `yaml:"name"`
	Category    Category `yaml:"category"`
	HitStat     Stat     `yaml:"hit_stat"`     // attacker stat for persons; empty = cannot attack by check
	Defense     string   `yaml:"defense"`      // "<stat> DR<n>", "always", or empty
	Damage      string   `yaml:"damage"`       // dice notation or bare integer
	Ammo        string   `yaml:"ammo"`         // "-1"/empty = unlimited, notation, or "heart+N"
	Effect      Effect   `yaml:"effect"`       // empty = none
	Usage       Usage    `yaml:"usage"`        // empty = random
	SeqIndex    int      `yaml:"seq_index"`    // 1-based position for sequential usage
	AttackCount string   `yaml:"attack_count"` // notation; empty = 1
	Summon      string   `yaml:"summon"`       // template name for the summon effect
	SummonHP    string   `yaml:"summon_hp"`    // HP notation overriding the summoned template
}

// IsRanged reports whether the weapon can reach flying targets.
func (w *WeaponDef) IsRanged() bool {
	return w.Category == CategoryRanged
}

// EffectiveUsage returns Usage, defaulting to UsageRandom.
func (w *WeaponDef) EffectiveUsage() Usage {
	if w.Usage == "" {
		return UsageRandom
	}
	return w.Usage
}

// Validate checks that the WeaponDef satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (w *WeaponDef) Validate() error {
	var errs []error
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch w.Category {
	case CategoryMelee, CategoryRanged, CategoryArea:
	default:
		errs = append(errs, fmt.Errorf("category %q must be one of melee, ranged, area", w.Category))
	}
	if w.HitStat != "" && !w.HitStat.Valid() {
		errs = append(errs, fmt.Errorf("hit_stat %q is not a known stat", w.HitStat))
	}
	if _, err := ParseDefense(w.Defense); err != nil {
		errs = append(errs, err)
	}
	if _, err := dice.Parse(w.Damage); err != nil {
		errs = append(errs, fmt.Errorf("damage: %w", err))
	}
	if w.AttackCount != "" {
		if _, err := dice.Parse(w.AttackCount); err != nil {
			errs = append(errs, fmt.Errorf("attack_count: %w", err))
		}
	}
	if err := validateAmmo(w.Ammo); err != nil {
		errs = append(errs, err)
	}
	if !w.Effect.Valid() {
		errs = append(errs, fmt.Errorf("effect %q is not a known effect", w.Effect))
	}
	switch w.EffectiveUsage() {
	case UsageRandom, UsageFirstTurn, UsageReserve, UsageOnDeath:
	case UsageSequential:
		if w.SeqIndex < 1 {
			errs = append(errs, errors.New("sequential weapons need seq_index >= 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("usage %q is not a known usage", w.Usage))
	}
	if w.Effect == EffectSummon && w.Summon == "" {
		errs = append(errs, errors.New("summon effect requires a summon template"))
	}
	if w.SummonHP != "" {
		if _, err := dice.Parse(w.SummonHP); err != nil {
			errs = append(errs, fmt.Errorf("summon_hp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon %q validation failed: %w", w.Name, errors.Join(errs...))
	}
	return nil
}

const heartAmmoPrefix = "heart+"

func validateAmmo(ammo string) error {
	a := strings.ToLower(strings.TrimSpace(ammo))
	if a == "" {
		return nil
	}
	if strings.HasPrefix(a, heartAmmoPrefix) {
		if _, err := strconv.Atoi(strings.TrimPrefix(a, heartAmmoPrefix)); err != nil {
			return fmt.Errorf("ammo %q: invalid heart offset", ammo)
		}
		return nil
	}
	if _, err := dice.Parse(a); err != nil {
		return fmt.Errorf("ammo: %w", err)
	}
	return nil
}

// ResolveAmmo turns the ammo formula into a concrete round count.
// heart is the owner's heart stat, used by "heart+N" formulas.
//
// Postcondition: Returns UnlimitedAmmo or a value >= 0.
func (w *WeaponDef) ResolveAmmo(r *dice.Roller, heart int) int {
	a := strings.ToLower(strings.TrimSpace(w.Ammo))
	if a == "" || a == "-1" {
		return UnlimitedAmmo
	}
	var n int
	if strings.HasPrefix(a, heartAmmoPrefix) {
		offset, _ := strconv.Atoi(strings.TrimPrefix(a, heartAmmoPrefix))
		n = heart + offset
	} else {
		n = r.ParseAndRoll(a)
	}
	if n < 0 {
		return 0
	}
	return n
}

// Weapon is a per-combatant weapon instance. The embedded definition is a
// value copy so mutating one combatant's weapon never affects another's.
type Weapon struct {
	WeaponDef
	Ammo   int  // UnlimitedAmmo, or remaining uses
	Broken bool // set by a fumble; cleared by Clone
}

// NewWeapon instantiates def with a resolved ammo count.
func NewWeapon(def WeaponDef, r *dice.Roller, heart int) Weapon {
	return Weapon{WeaponDef: def, Ammo: def.ResolveAmmo(r, heart)}
}

// Usable reports whether the weapon can be selected: not broken and not out of ammo.
func (w *Weapon) Usable() bool {
	return !w.Broken && w.Ammo != 0
}

// HasLimitedAmmo reports whether the weapon tracks remaining uses.
func (w *Weapon) HasLimitedAmmo() bool {
	return w.Ammo != UnlimitedAmmo
}

// Unarmed returns the implicit strike used by a person with no usable weapon.
func Unarmed() Weapon {
	return Weapon{
		WeaponDef: WeaponDef{
			Name:     "unarmed",
			Category: CategoryMelee,
			HitStat:  StatBody,
			Defense:  "skill DR12",
			Damage:   "1D2",
			Usage:    UsageRandom,
		},
		Ammo: UnlimitedAmmo,
	}
}
