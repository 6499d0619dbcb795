// Package combat implements the squad battle engine: combatants, teams,
// attack resolution, the status lifecycle, and the turn loop.
package combat

import "github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"

// Kind distinguishes person combatants from creature combatants.
type Kind int

const (
	KindPerson Kind = iota
	KindCreature
)

// String returns a human-readable kind label.
func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindCreature:
		return "creature"
	default:
		return "unknown"
	}
}

// Outcome is the 4-tier result of a d20 check.
type Outcome int

const (
	CritSuccess Outcome = iota
	Success
	Failure
	CritFailure
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case CritSuccess:
		return "critical success"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case CritFailure:
		return "critical failure"
	default:
		return "unknown"
	}
}

// OutcomeFor classifies a d20 check. A natural 20 is always a critical
// success and a natural 1 always a critical failure; otherwise the check
// succeeds iff total >= difficulty.
//
// Precondition: natural in [1, 20].
func OutcomeFor(natural, total, difficulty int) Outcome {
	switch {
	case natural == 20:
		return CritSuccess
	case natural == 1:
		return CritFailure
	case total >= difficulty:
		return Success
	default:
		return Failure
	}
}

// Stats are a person's four base attributes, each in [-3, 3] when rolled.
type Stats struct {
	Heart      int
	Skill      int
	Body       int
	Durability int
}

// Get returns the named stat, or 0 for an unknown name.
func (s Stats) Get(stat inventory.Stat) int {
	switch stat {
	case inventory.StatHeart:
		return s.Heart
	case inventory.StatSkill:
		return s.Skill
	case inventory.StatBody:
		return s.Body
	case inventory.StatDurability:
		return s.Durability
	}
	return 0
}

// TargetPreference narrows a combatant's candidate targets before the random pick.
type TargetPreference string

const (
	TargetRandom TargetPreference = "random"
	TargetHighHP TargetPreference = "high_hp"
	TargetLowHP  TargetPreference = "low_hp"
)

// Traits are creature abilities configured by templates.
type Traits struct {
	// Flying creatures can only be reached by ranged weapons, unless the flyer
	// just struck the attacker with its GroundingWeapon.
	Flying          bool
	GroundingWeapon string
	// PanicGroup names a skittish group; any damage to one member routs
	// every living teammate in the same group.
	PanicGroup string
	// DamageCap, when > 0, replaces any positive incoming damage.
	DamageCap int
}
