package combat

import (
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// selectWeapon chooses the weapon actor attacks with this turn. The returned
// pointer aliases the actor's own weapon, except for the person unarmed
// fallback. Returns nil when a creature has nothing usable.
func selectWeapon(actor *Combatant, r *dice.Roller) *inventory.Weapon {
	usable := actor.UsableWeapons()
	if actor.Kind == KindPerson {
		var valid []*inventory.Weapon
		for _, w := range usable {
			if w.HitStat != "" {
				valid = append(valid, w)
			}
		}
		if len(valid) == 0 {
			unarmed := inventory.Unarmed()
			return &unarmed
		}
		return valid[r.D(len(valid))-1]
	}
	return selectCreatureWeapon(actor, usable)
}

// selectCreatureWeapon applies the usage patterns: the first-turn weapon on
// turn 1, then the sequential cycle, then any random-usage weapon, and
// finally a reserve weapon. On-death weapons are never selected.
func selectCreatureWeapon(actor *Combatant, usable []*inventory.Weapon) *inventory.Weapon {
	var firstTurn, reserve *inventory.Weapon
	var sequential, fallback []*inventory.Weapon
	for _, w := range usable {
		switch w.EffectiveUsage() {
		case inventory.UsageFirstTurn:
			if firstTurn == nil {
				firstTurn = w
			}
		case inventory.UsageSequential:
			sequential = append(sequential, w)
		case inventory.UsageReserve:
			if reserve == nil {
				reserve = w
			}
		case inventory.UsageOnDeath:
		default:
			fallback = append(fallback, w)
		}
	}

	if actor.TurnCount == 1 && firstTurn != nil {
		return firstTurn
	}
	if len(sequential) > 0 {
		maxSeq := 1
		for _, w := range sequential {
			maxSeq = max(maxSeq, w.SeqIndex)
		}
		cycle := actor.TurnCount
		if firstTurn != nil {
			cycle--
		}
		cycle = max(cycle, 1)
		idx := (cycle-1)%maxSeq + 1
		for _, w := range sequential {
			if w.SeqIndex == idx {
				return w
			}
		}
		return sequential[0]
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return reserve
}

// selectTargets picks the victim for actor's attack with weapon.
// Returns nil when no enemy can be reached.
func (b *Battle) selectTargets(actor *Combatant, team *Team, weapon *inventory.Weapon) []*Combatant {
	charmer := ""
	if st, ok := actor.statuses().Get(condition.Charm); ok {
		charmer = st.SourceID
	}

	var candidates []*Combatant
	for _, enemy := range b.enemiesOf(team) {
		for _, m := range enemy.LivingMembers() {
			if !canReach(actor, m, weapon) {
				continue
			}
			if charmer != "" && m.ID == charmer {
				continue
			}
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	candidates = narrowByPreference(candidates, actor.Target)
	return []*Combatant{candidates[b.roller.D(len(candidates))-1]}
}

// canReach applies the flying filter: a flyer can only be struck by ranged
// weapons, or in melee by someone it just hit with its grounding weapon.
func canReach(actor, target *Combatant, weapon *inventory.Weapon) bool {
	if !target.Traits.Flying || weapon.IsRanged() {
		return true
	}
	grounding := target.Traits.GroundingWeapon
	return grounding != "" && target.LastAction != nil &&
		target.LastAction.Weapon == grounding && target.LastAction.Targeted(actor.ID)
}

// narrowByPreference keeps only the tied highest- or lowest-HP candidates.
//
// Precondition: len(candidates) > 0.
func narrowByPreference(candidates []*Combatant, pref TargetPreference) []*Combatant {
	var better func(a, b int) bool
	switch pref {
	case TargetHighHP:
		better = func(a, b int) bool { return a > b }
	case TargetLowHP:
		better = func(a, b int) bool { return a < b }
	default:
		return candidates
	}
	best := candidates[0].HP
	for _, c := range candidates[1:] {
		if better(c.HP, best) {
			best = c.HP
		}
	}
	var out []*Combatant
	for _, c := range candidates {
		if c.HP == best {
			out = append(out, c)
		}
	}
	return out
}
