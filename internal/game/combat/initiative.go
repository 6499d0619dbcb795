package combat

import (
	"fmt"
	"strings"
)

// teamInitiative pairs a team with its initiative roll for one turn.
type teamInitiative struct {
	team *Team
	roll int
}

// rollInitiative rolls 1d6 for every team and returns the teams in
// descending roll order. Ties keep battle order.
func (b *Battle) rollInitiative() []*Team {
	rolls := make([]teamInitiative, len(b.teams))
	for i, t := range b.teams {
		rolls[i] = teamInitiative{team: t, roll: b.roller.D(6)}
	}
	sortByInitiativeDesc(rolls)

	parts := make([]string, len(rolls))
	order := make([]*Team, len(rolls))
	for i, r := range rolls {
		parts[i] = fmt.Sprintf("%s(%d)", r.team.ID, r.roll)
		order[i] = r.team
	}
	b.logf("Initiative: %s", strings.Join(parts, ", "))
	return order
}

// sortByInitiativeDesc sorts rolls in place, highest first. Insertion sort
// keeps equal rolls in their original order.
func sortByInitiativeDesc(rolls []teamInitiative) {
	for i := 1; i < len(rolls); i++ {
		for j := i; j > 0 && rolls[j].roll > rolls[j-1].roll; j-- {
			rolls[j], rolls[j-1] = rolls[j-1], rolls[j]
		}
	}
}
