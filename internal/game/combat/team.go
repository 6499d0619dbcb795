package combat

import (
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// TeamID identifies a team. Team A is the player team.
type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
	TeamC TeamID = "C"
	TeamD TeamID = "D"
)

// Valid reports whether id is one of A, B, C, D.
func (id TeamID) Valid() bool {
	switch id {
	case TeamA, TeamB, TeamC, TeamD:
		return true
	}
	return false
}

// TeamType distinguishes player-controlled squads from NPC squads.
type TeamType string

const (
	TeamPlayer TeamType = "player"
	TeamNPC    TeamType = "npc"
)

// Team is a squad of combatants with a list of hostile team ids.
type Team struct {
	ID           TeamID
	Type         TeamType
	Members      []*Combatant
	Enemies      []TeamID
	InitialCount int
	Routed       bool
	Surrendered  bool
}

// NewTeam creates a team. InitialCount is fixed to len(members) at creation;
// summoned reinforcements added later do not change it.
func NewTeam(id TeamID, typ TeamType, members []*Combatant, enemies ...TeamID) *Team {
	return &Team{
		ID:           id,
		Type:         typ,
		Members:      members,
		Enemies:      enemies,
		InitialCount: len(members),
	}
}

// IsEnemy reports whether id is hostile to this team.
func (t *Team) IsEnemy(id TeamID) bool {
	for _, e := range t.Enemies {
		if e == id {
			return true
		}
	}
	return false
}

// Leader returns the first roster member, or nil for an empty team.
func (t *Team) Leader() *Combatant {
	if len(t.Members) == 0 {
		return nil
	}
	return t.Members[0]
}

// Has reports whether c is on this team's roster.
func (t *Team) Has(c *Combatant) bool {
	for _, m := range t.Members {
		if m == c {
			return true
		}
	}
	return false
}

// LivingMembers returns members that are alive and not individually routed.
func (t *Team) LivingMembers() []*Combatant {
	var out []*Combatant
	for _, m := range t.Members {
		if m.IsAlive() && !m.HasStatus(condition.Rout) {
			out = append(out, m)
		}
	}
	return out
}

// ActiveMembers returns members able to act this turn.
func (t *Team) ActiveMembers() []*Combatant {
	var out []*Combatant
	for _, m := range t.Members {
		if m.IsActive() {
			out = append(out, m)
		}
	}
	return out
}

// HasActiveMembers reports whether the team is still in the fight: at least
// one living member and neither routed nor surrendered.
//
// Postcondition: Returns false whenever Routed or Surrendered is true.
func (t *Team) HasActiveMembers() bool {
	return !t.Routed && !t.Surrendered && len(t.LivingMembers()) > 0
}

// MoraleResult is the outcome of a morale check.
type MoraleResult int

const (
	MoraleHold MoraleResult = iota
	MoraleRout
	MoraleSurrender
)

// String returns a human-readable morale result.
func (m MoraleResult) String() string {
	switch m {
	case MoraleHold:
		return "hold"
	case MoraleRout:
		return "rout"
	case MoraleSurrender:
		return "surrender"
	default:
		return "unknown"
	}
}

// Morale trigger reasons.
const (
	ReasonLeaderDown  = "leader down"
	ReasonHalfLost    = "half the squad lost"
	ReasonLowHPSingle = "HP at or below 30%"
)

// MoraleCheck reports whether a morale roll was made and how it went.
type MoraleCheck struct {
	Result  MoraleResult
	Checked bool
	Roll    int
	Target  int
	Reasons []string
}

// CheckMorale evaluates the morale triggers and, if any fires, rolls 2d6
// against the highest morale among living members. Rolling over it routs
// (1d6 of 1-3) or surrenders (4-6) the team permanently.
//
// Postcondition: team A never checks; an already routed or surrendered team
// reports its state without a new roll.
func (t *Team) CheckMorale(r *dice.Roller) MoraleCheck {
	if t.ID == TeamA {
		return MoraleCheck{Result: MoraleHold}
	}
	if t.Routed {
		return MoraleCheck{Result: MoraleRout}
	}
	if t.Surrendered {
		return MoraleCheck{Result: MoraleSurrender}
	}

	living := t.LivingMembers()
	var reasons []string
	if leader := t.Leader(); leader != nil && (!leader.IsAlive() || leader.HasStatus(condition.Rout)) {
		reasons = append(reasons, ReasonLeaderDown)
	}
	if 2*len(living) <= t.InitialCount {
		reasons = append(reasons, ReasonHalfLost)
	}
	if t.InitialCount == 1 && len(living) == 1 && 10*living[0].HP <= 3*living[0].MaxHP {
		reasons = append(reasons, ReasonLowHPSingle)
	}
	if len(reasons) == 0 {
		return MoraleCheck{Result: MoraleHold}
	}

	target := 0
	for i, m := range living {
		if i == 0 || m.Morale > target {
			target = m.Morale
		}
	}
	check := MoraleCheck{Result: MoraleHold, Checked: true, Roll: r.Dice(2, 6), Target: target, Reasons: reasons}
	if check.Roll > target {
		if r.D(6) <= 3 {
			t.Routed = true
			check.Result = MoraleRout
		} else {
			t.Surrendered = true
			check.Result = MoraleSurrender
		}
	}
	return check
}

// TeamStats is the end-of-battle accounting for one team.
type TeamStats struct {
	Initial int
	Final   int
	Fled    int
}

// Stats computes the team's post-battle accounting. Members of a routed team
// count as fled; individually routed living members always count as fled.
func (t *Team) Stats() TeamStats {
	living := len(t.LivingMembers())
	individuallyRouted := 0
	for _, m := range t.Members {
		if m.IsAlive() && m.HasStatus(condition.Rout) {
			individuallyRouted++
		}
	}
	stats := TeamStats{Initial: t.InitialCount, Final: living, Fled: individuallyRouted}
	if t.Routed {
		stats.Final = 0
		stats.Fled += living
	}
	return stats
}
