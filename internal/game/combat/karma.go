package combat

import "github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"

// leaderTag prefixes narration about a team's leader.
const leaderTag = "[Leader] "

// useKarma spends one of c's karma points if karma is enabled.
//
// Postcondition: c.Karma >= 0; returns true iff a point was spent.
func (b *Battle) useKarma(c *Combatant, reason string) bool {
	if !b.karma || c.Karma <= 0 {
		return false
	}
	c.Karma--
	b.logf("[Karma] %s spends karma! (%s) Remaining: %d", c.Name, reason, c.Karma)
	return true
}

// applyDamage is the single entry point for damage during a battle. Persons
// may spend karma to shrug off a critical or soften a lethal blow; creatures
// with a damage cap take exactly the cap from any positive damage. Damage to
// a panic-group member routs the whole group.
func (b *Battle) applyDamage(target *Combatant, damage int, critical bool) DamageResult {
	if target.IsPerson() {
		if critical && b.useKarma(target, "cancel critical") {
			critical = false
			damage /= 2
			b.logf("%s dodges the vital blow! (critical cancelled)", target.Name)
		}
		if damage >= target.HP && b.useKarma(target, "reduce damage") {
			reduce := b.roller.D(6)
			damage = max(0, damage-reduce)
			b.logf("%s grits their teeth! Damage -%d.", target.Name, reduce)
		}
	} else if limit := target.Traits.DamageCap; limit > 0 && damage > 0 {
		damage = limit
	}

	res := target.TakeDamage(damage, critical, b.roller)
	if b.isLeader(target) {
		res.Narrative = leaderTag + res.Narrative
	}
	if group := target.Traits.PanicGroup; group != "" && res.Final >= 1 && b.panicGroup(target, group) {
		res.Narrative += " Hearing their comrade scream, the whole group flees! (all routed)"
	}
	return res
}

// panicGroup routs every living, non-routed teammate of trigger in group.
// Reports whether anyone was routed.
func (b *Battle) panicGroup(trigger *Combatant, group string) bool {
	team := b.teamOf(trigger)
	if team == nil {
		return false
	}
	routed := false
	for _, m := range team.Members {
		if m.Traits.PanicGroup == group && m.IsAlive() && !m.HasStatus(condition.Rout) {
			m.AddStatus(condition.Rout, "", 0)
			routed = true
		}
	}
	return routed
}
