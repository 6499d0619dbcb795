package npc

import (
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// NewInstance creates a fully equipped creature from tmpl, rolling its HP
// and any ammo formulas with r. Every weapon is a fresh value copy.
//
// Precondition: tmpl must be non-nil and valid; r must be non-nil.
// Postcondition: HP == MaxHP >= 1; the creature is named after the template.
func NewInstance(tmpl *Template, r *dice.Roller) *combat.Combatant {
	hp := max(1, r.ParseAndRoll(tmpl.HP))
	morale := tmpl.Morale
	if tmpl.MoraleEqualsHP {
		morale = hp
	}

	c := combat.NewCreature(tmpl.Name, hp, morale)
	// Validate has already vetted the armor declaration.
	c.ArmorTier, c.ArmorNotation, _ = ParseArmor(tmpl.Armor)
	if tmpl.TargetPreference != "" {
		c.Target = combat.TargetPreference(tmpl.TargetPreference)
	}
	c.Traits = combat.Traits{
		Flying:          tmpl.Traits.Flying,
		GroundingWeapon: tmpl.Traits.GroundingWeapon,
		PanicGroup:      tmpl.Traits.PanicGroup,
		DamageCap:       tmpl.Traits.DamageCap,
	}
	c.Weapons = make([]inventory.Weapon, len(tmpl.Weapons))
	for i, def := range tmpl.Weapons {
		c.Weapons[i] = inventory.NewWeapon(def, r, 0)
	}
	return c
}
