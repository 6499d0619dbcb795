package condition

import "fmt"

// Kind identifies one status effect. The set of kinds is closed.
type Kind int

const (
	Paralysis Kind = iota
	Sleep
	Charm
	Infection
	Rout
	Dead
	Unconscious
	Bleeding
	Shirikodama
	Roar
	RoarImmunity
	DanceSeduced
	KickDebuff
	kindCount
)

var kindNames = [kindCount]string{
	Paralysis:    "paralysis",
	Sleep:        "sleep",
	Charm:        "charm",
	Infection:    "infection",
	Rout:         "rout",
	Dead:         "dead",
	Unconscious:  "unconscious",
	Bleeding:     "bleeding",
	Shirikodama:  "shirikodama",
	Roar:         "roar",
	RoarImmunity: "roar_immunity",
	DanceSeduced: "dance_seduced",
	KickDebuff:   "kick_debuff",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// SuppressesTurn reports whether a combatant carrying this status skips its action.
func (k Kind) SuppressesTurn() bool {
	switch k {
	case Rout, Unconscious, Roar, Paralysis:
		return true
	}
	return false
}

// CheckPenalty is the flat modifier this status applies to every check the
// bearer makes.
//
// Postcondition: Returns <= 0.
func (k Kind) CheckPenalty() int {
	switch k {
	case KickDebuff:
		return -2
	case DanceSeduced:
		return -3
	}
	return 0
}

// AllKinds returns every status kind in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a snake_case name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("condition: unknown status kind %q", name)
}

// SourceBreath tags a Paralysis inflicted by a breath weapon. Breath paralysis
// persists across turns until the bearer saves, unlike ordinary paralysis.
const SourceBreath = "breath"
