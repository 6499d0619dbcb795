package combat

import (
	"fmt"
	"strings"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
)

// processTurn runs one full battle turn: initiative, then each team in order.
func (b *Battle) processTurn() {
	b.logf("--- Turn %d ---", b.turn)
	for _, team := range b.rollInitiative() {
		if !team.HasActiveMembers() {
			continue
		}
		b.processTeamTurn(team)
		b.checkWin()
		if b.over {
			return
		}
	}
}

// processTeamTurn walks the team's living roster snapshot. Every living
// member gets start- and end-of-turn status processing; only active members act.
// Morale is re-evaluated for every non-player team afterwards.
func (b *Battle) processTeamTurn(team *Team) {
	b.logf("Team %s acts.", team.ID)
	for _, member := range team.LivingMembers() {
		if !member.IsAlive() || member.HasStatus(condition.Rout) {
			continue
		}
		b.startOfTurn(member)

		if !member.IsActive() {
			if member.HasStatus(condition.Roar) {
				b.logf("%s cowers in fear.", member.Name)
			}
			if member.HasStatus(condition.Paralysis) {
				b.logf("%s is paralyzed!", member.Name)
			}
			b.endOfTurn(member)
			continue
		}

		member.TurnCount++
		b.act(member, team)
		b.endOfTurn(member)
	}
	b.evaluateMorale()
}

// evaluateMorale checks morale for every non-player team still in the fight.
func (b *Battle) evaluateMorale() {
	for _, t := range b.teams {
		if t.ID == TeamA || !t.HasActiveMembers() {
			continue
		}
		check := t.CheckMorale(b.roller)
		if !check.Checked {
			continue
		}
		detail := fmt.Sprintf("[%s] (2d6=%d vs morale %d)", strings.Join(check.Reasons, ", "), check.Roll, check.Target)
		switch check.Result {
		case MoraleRout:
			b.logf("Team %s morale check: %s -> failed! The team routs!", t.ID, detail)
		case MoraleSurrender:
			b.logf("Team %s morale check: %s -> failed! The team surrenders!", t.ID, detail)
		default:
			b.logf("Team %s morale check: %s -> holds", t.ID, detail)
		}
	}
}

// act selects a weapon and targets for actor and runs its attack repetitions.
func (b *Battle) act(actor *Combatant, team *Team) {
	weapon := selectWeapon(actor, b.roller)
	if weapon == nil {
		b.logf("%s has no usable weapon!", actor.Name)
		return
	}

	targets := b.selectTargets(actor, team, weapon)
	if len(targets) == 0 {
		switch {
		case len(team.Enemies) == 0:
		case actor.HasStatus(condition.Charm):
			b.logf("%s is charmed and cannot attack!", actor.Name)
		case b.anyEnemyActive(team):
			b.logf("%s cannot find a target.", actor.Name)
		}
		return
	}

	ids := make([]string, len(targets))
	for i, t := range targets {
		ids[i] = t.ID
	}
	actor.LastAction = &LastAction{Weapon: weapon.Name, TargetIDs: ids}

	count := 1
	if weapon.AttackCount != "" {
		count = b.roller.ParseAndRoll(weapon.AttackCount)
	}
	for i := 0; i < count; i++ {
		if weapon.Ammo > 0 {
			weapon.Ammo--
		} else if weapon.Ammo == 0 {
			b.logf("%s's %s is out of ammo!", actor.Name, weapon.Name)
			break
		}
		for _, target := range targets {
			if !actor.IsActive() || !target.IsAlive() {
				break
			}
			b.applyPreAttack(actor, team, weapon)
			b.interact(actor, target, weapon)
		}
	}
}

func (b *Battle) anyEnemyActive(team *Team) bool {
	for _, t := range b.enemiesOf(team) {
		if t.HasActiveMembers() {
			return true
		}
	}
	return false
}
