package simulate

import (
	"errors"
	"fmt"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/character"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
)

// Matchup is the standard scenario: a random party as team A against a
// pack of one creature type as team B.
type Matchup struct {
	PartySize     int
	Creature      string
	CreatureCount int
}

// Validate checks the matchup's counts.
func (m Matchup) Validate() error {
	var errs []error
	if m.PartySize < 1 {
		errs = append(errs, fmt.Errorf("party size must be >= 1, got %d", m.PartySize))
	}
	if m.Creature == "" {
		errs = append(errs, errors.New("creature must not be empty"))
	}
	if m.CreatureCount < 1 {
		errs = append(errs, fmt.Errorf("creature count must be >= 1, got %d", m.CreatureCount))
	}
	return errors.Join(errs...)
}

// Factory builds the TeamFactory for m. An unknown creature fails here,
// before any trial runs.
//
// Precondition: table, reg and r must be non-nil.
// Postcondition: Returns a factory producing fresh teams on every call, or an error.
func (m Matchup) Factory(table *inventory.WeaponTable, reg *npc.Registry, r *dice.Roller) (TeamFactory, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("matchup: %w", err)
	}
	spawn, err := reg.Factory(m.Creature)
	if err != nil {
		return nil, fmt.Errorf("matchup: %w", err)
	}
	return func() ([]*combat.Team, error) {
		party, err := character.BuildParty(m.PartySize, table, r)
		if err != nil {
			return nil, err
		}
		pack := make([]*combat.Combatant, m.CreatureCount)
		for j := range pack {
			c := spawn()
			if m.CreatureCount > 1 {
				c.Name = fmt.Sprintf("%s %d", c.Name, j+1)
			}
			pack[j] = c
		}
		return []*combat.Team{
			combat.NewTeam(combat.TeamA, combat.TeamPlayer, party, combat.TeamB),
			combat.NewTeam(combat.TeamB, combat.TeamNPC, pack, combat.TeamA),
		}, nil
	}, nil
}
