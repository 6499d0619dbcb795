// Package character rolls and assembles the persons that make up a player party.
package character

import (
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// PartyPrefix is the display name stem of generated party members.
const PartyPrefix = "人間"

// armorByRoll maps a 1d6 roll (index 1-6) to an armor tier.
var armorByRoll = [...]int{0, 0, 0, 1, 2, 3, 4}

// Spec describes a hand-built person.
type Spec struct {
	Name      string
	Stats     combat.Stats
	ArmorTier int
	// Weapons are instantiated in order; nil leaves the person unarmed.
	Weapons []inventory.WeaponDef
}
