package combat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// DefaultKarma is the number of karma points every person starts a battle with.
const DefaultKarma = 2

// armorDice maps an armor tier to its reduction die faces.
var armorDice = [...]int{0, 2, 3, 4, 6}

// LastAction records a combatant's most recent attack.
type LastAction struct {
	Weapon    string
	TargetIDs []string
}

// Targeted reports whether id was among the action's targets.
func (a *LastAction) Targeted(id string) bool {
	if a == nil {
		return false
	}
	for _, t := range a.TargetIDs {
		if t == id {
			return true
		}
	}
	return false
}

// Combatant represents one participant in a battle: either a person or a creature.
// It is not safe for concurrent use; a battle owns its combatants exclusively.
type Combatant struct {
	ID     string
	Kind   Kind
	Name   string
	MaxHP  int
	HP     int
	Morale int

	// ArmorTier is in [0, 4]; ArmorNotation, when set, overrides the tier roll.
	ArmorTier     int
	ArmorNotation string

	Stats         Stats
	StatModifiers map[inventory.Stat]int
	RollModifier  int

	Weapons  []inventory.Weapon
	Statuses *condition.Set

	TurnCount  int
	LastAction *LastAction
	Karma      int
	Target     TargetPreference
	Traits     Traits

	deathTriggered bool
}

// NewPerson creates a person with the given stats and a freshly rolled max HP
// of max(1, 1d8 + durability).
//
// Precondition: r must be non-nil.
// Postcondition: HP == MaxHP >= 1; Karma == DefaultKarma.
func NewPerson(name string, stats Stats, r *dice.Roller) *Combatant {
	maxHP := max(1, r.D(8)+stats.Durability)
	return &Combatant{
		ID:            uuid.NewString(),
		Kind:          KindPerson,
		Name:          name,
		MaxHP:         maxHP,
		HP:            maxHP,
		Stats:         stats,
		StatModifiers: make(map[inventory.Stat]int),
		Statuses:      condition.NewSet(),
		Karma:         DefaultKarma,
		Target:        TargetRandom,
	}
}

// NewCreature creates a creature with fixed max HP and morale. Armor,
// weapons, traits, and targeting preference are set by the caller.
//
// Postcondition: HP == MaxHP; Karma == 0.
func NewCreature(name string, maxHP, morale int) *Combatant {
	return &Combatant{
		ID:            uuid.NewString(),
		Kind:          KindCreature,
		Name:          name,
		MaxHP:         maxHP,
		HP:            maxHP,
		Morale:        morale,
		StatModifiers: make(map[inventory.Stat]int),
		Statuses:      condition.NewSet(),
		Target:        TargetRandom,
	}
}

// IsPerson reports whether this combatant is a person.
func (c *Combatant) IsPerson() bool { return c.Kind == KindPerson }

// statuses returns the combatant's status set, allocating it on first use so
// a zero-value Combatant is usable.
func (c *Combatant) statuses() *condition.Set {
	if c.Statuses == nil {
		c.Statuses = condition.NewSet()
	}
	return c.Statuses
}

// IsAlive reports whether the combatant does not carry Dead.
func (c *Combatant) IsAlive() bool { return !c.statuses().Has(condition.Dead) }

// IsActive reports whether the combatant is alive and free of every
// turn-suppressing status.
func (c *Combatant) IsActive() bool {
	return c.IsAlive() && !condition.IsSuppressed(c.statuses())
}

// HasStatus reports whether kind is active on the combatant.
func (c *Combatant) HasStatus(kind condition.Kind) bool { return c.statuses().Has(kind) }

// AddStatus applies kind with merge semantics; see condition.Set.Add.
func (c *Combatant) AddStatus(kind condition.Kind, sourceID string, value int) {
	c.statuses().Add(kind, sourceID, value)
}

// RemoveStatus removes kind if present.
func (c *Combatant) RemoveStatus(kind condition.Kind) { c.statuses().Remove(kind) }

// AdjustStat adds delta to the check modifier for stat.
func (c *Combatant) AdjustStat(stat inventory.Stat, delta int) {
	if c.StatModifiers == nil {
		c.StatModifiers = make(map[inventory.Stat]int)
	}
	c.StatModifiers[stat] += delta
}

// CheckModifier is the flat modifier applied to every check this combatant makes.
func (c *Combatant) CheckModifier() int {
	return c.RollModifier + condition.CheckModifier(c.statuses())
}

// Stat returns the effective value of stat for checks. Creatures have no
// check stats and always return 0.
func (c *Combatant) Stat(stat inventory.Stat) int {
	if c.Kind != KindPerson {
		return 0
	}
	return c.Stats.Get(stat) + c.StatModifiers[stat] + c.CheckModifier()
}

// ArmorReduction rolls the damage absorbed by this combatant's armor.
//
// Postcondition: Returns >= 0.
func (c *Combatant) ArmorReduction(r *dice.Roller) int {
	if c.ArmorNotation != "" {
		v := r.ParseAndRoll(strings.TrimPrefix(c.ArmorNotation, "-"))
		if v < 0 {
			v = -v
		}
		return v
	}
	if c.ArmorTier <= 0 || c.ArmorTier >= len(armorDice) {
		return 0
	}
	return r.D(armorDice[c.ArmorTier])
}

// ArmorLabel describes the armor for roster narration.
func (c *Combatant) ArmorLabel() string {
	if c.ArmorNotation != "" {
		return c.ArmorNotation
	}
	return fmt.Sprintf("lv%d", c.ArmorTier)
}

// DamageResult describes one application of damage.
type DamageResult struct {
	Final       int
	Reduction   int
	ArmorBroken bool
	Narrative   string
}

// TakeDamage applies amount after armor reduction, degrades armor on a
// critical, and resolves death.
//
// Precondition: amount >= 0.
// Postcondition: result.Final == max(0, amount - result.Reduction); ArmorTier >= 0.
func (c *Combatant) TakeDamage(amount int, critical bool, r *dice.Roller) DamageResult {
	res := DamageResult{Reduction: c.ArmorReduction(r)}
	res.Final = max(0, amount-res.Reduction)
	c.HP -= res.Final

	var b strings.Builder
	fmt.Fprintf(&b, "%s takes %d damage (armor -%d). HP: %d.", c.Name, res.Final, res.Reduction, c.HP)
	if critical && c.ArmorTier > 0 {
		c.ArmorTier--
		res.ArmorBroken = true
		fmt.Fprintf(&b, " Armor damaged, now lv%d.", c.ArmorTier)
	}
	if msg := c.resolveDeath(r); msg != "" {
		b.WriteString(" ")
		b.WriteString(msg)
	}
	res.Narrative = b.String()
	return res
}

// LoseHP removes n HP directly, bypassing armor, and resolves death.
func (c *Combatant) LoseHP(n int, r *dice.Roller) string {
	c.HP -= n
	return c.resolveDeath(r)
}

// resolveDeath applies the death rules for the combatant's kind. Persons at
// exactly 0 HP roll 1d4 at death's door; below 0 they die outright.
// Creatures die at 0 HP or below.
func (c *Combatant) resolveDeath(r *dice.Roller) string {
	if c.HP > 0 || !c.IsAlive() {
		return ""
	}
	if c.Kind != KindPerson {
		c.AddStatus(condition.Dead, "", 0)
		return fmt.Sprintf("%s falls.", c.Name)
	}
	if c.HP <= -1 {
		c.AddStatus(condition.Dead, "", 0)
		return fmt.Sprintf("%s is killed outright (HP <= -1).", c.Name)
	}
	roll := r.D(4)
	switch roll {
	case 1, 2:
		turns := r.D(4)
		c.AddStatus(condition.Unconscious, "", turns)
		return fmt.Sprintf("%s falls unconscious (roll %d, %d turns).", c.Name, roll, turns)
	case 3:
		c.AddStatus(condition.Bleeding, "", 0)
		return fmt.Sprintf("%s is bleeding (roll %d).", c.Name, roll)
	default:
		c.AddStatus(condition.Dead, "", 0)
		return fmt.Sprintf("%s dies (roll %d).", c.Name, roll)
	}
}

// Heal restores up to amount HP, capped at MaxHP, and returns the HP actually restored.
//
// Postcondition: HP <= MaxHP.
func (c *Combatant) Heal(amount int) int {
	old := c.HP
	c.HP = min(c.MaxHP, c.HP+amount)
	if c.HP < old {
		c.HP = old
	}
	return c.HP - old
}

// DropEquipment removes a random weapon or, with no weapons left, all armor.
func (c *Combatant) DropEquipment(r *dice.Roller) string {
	if n := len(c.Weapons); n > 0 {
		idx := r.D(n) - 1
		lost := c.Weapons[idx].Name
		kept := make([]inventory.Weapon, 0, n-1)
		kept = append(kept, c.Weapons[:idx]...)
		kept = append(kept, c.Weapons[idx+1:]...)
		c.Weapons = kept
		return fmt.Sprintf("%s loses weapon %s!", c.Name, lost)
	}
	if c.ArmorTier > 0 || c.ArmorNotation != "" {
		c.ArmorTier = 0
		c.ArmorNotation = ""
		return fmt.Sprintf("%s loses their armor!", c.Name)
	}
	return fmt.Sprintf("%s has nothing left to lose.", c.Name)
}

// UsableWeapons returns pointers to the combatant's usable weapons, in order.
// The pointers alias c.Weapons so ammo and breakage mutate the owner's copy.
func (c *Combatant) UsableWeapons() []*inventory.Weapon {
	var out []*inventory.Weapon
	for i := range c.Weapons {
		if c.Weapons[i].Usable() {
			out = append(out, &c.Weapons[i])
		}
	}
	return out
}

// Clone returns a fresh copy for a new trial: full HP, statuses and
// modifiers cleared, weapons repaired, turn counter and karma reset.
// Remaining ammo carries over. The clone keeps the same ID.
//
// Postcondition: clone.HP == clone.MaxHP; clone shares no mutable state with c.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Weapons = make([]inventory.Weapon, len(c.Weapons))
	for i, w := range c.Weapons {
		w.Broken = false
		cp.Weapons[i] = w
	}
	cp.Statuses = condition.NewSet()
	cp.StatModifiers = make(map[inventory.Stat]int)
	cp.RollModifier = 0
	cp.TurnCount = 0
	cp.LastAction = nil
	cp.HP = cp.MaxHP
	cp.deathTriggered = false
	if cp.Kind == KindPerson {
		cp.Karma = DefaultKarma
	} else {
		cp.Karma = 0
	}
	return &cp
}
