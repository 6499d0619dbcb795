package character

import (
	"errors"
	"fmt"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// StatForRoll maps a 3d6 total onto the -3..+3 stat scale.
//
// Postcondition: Returns a value in [-3, 3].
func StatForRoll(total int) int {
	switch {
	case total <= 4:
		return -3
	case total <= 6:
		return -2
	case total <= 8:
		return -1
	case total <= 12:
		return 0
	case total <= 14:
		return 1
	case total <= 16:
		return 2
	default:
		return 3
	}
}

// RollStat rolls 3d6 and maps the total with StatForRoll.
func RollStat(r *dice.Roller) int {
	return StatForRoll(r.Dice(3, 6))
}

// RollStats rolls all four stats in heart, skill, body, durability order.
func RollStats(r *dice.Roller) combat.Stats {
	return combat.Stats{
		Heart:      RollStat(r),
		Skill:      RollStat(r),
		Body:       RollStat(r),
		Durability: RollStat(r),
	}
}

// Build rolls a random person: stats, HP, one weapon from table and an armor tier.
// Ammo formulas such as "heart+5" resolve against the rolled heart stat.
//
// Precondition: name must be non-empty; table must be non-nil and valid; r must be non-nil.
// Postcondition: Returns a person with exactly one weapon and ArmorTier in [0, 4].
func Build(name string, table *inventory.WeaponTable, r *dice.Roller) (*combat.Combatant, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if table == nil {
		return nil, errors.New("weapon table must not be nil")
	}

	stats := RollStats(r)
	p := combat.NewPerson(name, stats, r)
	p.Weapons = []inventory.Weapon{inventory.NewWeapon(table.Roll(r), r, stats.Heart)}
	p.ArmorTier = armorByRoll[r.D(6)]
	return p, nil
}

// BuildCustom assembles a person from explicit choices. HP is still rolled.
//
// Precondition: spec.Name must be non-empty; ArmorTier in [0, 4]; every weapon valid.
// Postcondition: Returns a person or a non-nil error.
func BuildCustom(spec Spec, r *dice.Roller) (*combat.Combatant, error) {
	if spec.Name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if spec.ArmorTier < 0 || spec.ArmorTier > 4 {
		return nil, fmt.Errorf("armor tier must be 0-4, got %d", spec.ArmorTier)
	}
	p := combat.NewPerson(spec.Name, spec.Stats, r)
	p.ArmorTier = spec.ArmorTier
	for _, def := range spec.Weapons {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("character %q: %w", spec.Name, err)
		}
		p.Weapons = append(p.Weapons, inventory.NewWeapon(def, r, spec.Stats.Heart))
	}
	return p, nil
}

// MemberName returns the display name of the i-th (1-based) party member.
func MemberName(i int) string {
	return fmt.Sprintf("%s-%d", PartyPrefix, i)
}

// BuildParty rolls size random persons named by MemberName.
//
// Precondition: size >= 0.
// Postcondition: len(result) == size on success.
func BuildParty(size int, table *inventory.WeaponTable, r *dice.Roller) ([]*combat.Combatant, error) {
	party := make([]*combat.Combatant, 0, size)
	for i := 1; i <= size; i++ {
		p, err := Build(MemberName(i), table, r)
		if err != nil {
			return nil, err
		}
		party = append(party, p)
	}
	return party, nil
}
