package combat

import (
	"fmt"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// personAttackDR is the fixed difficulty for a person's attack check and for
// the standard attack.
const personAttackDR = 12

// karmaCheckBoost is the bonus a karma point adds to a near-miss check.
const karmaCheckBoost = 4

// lowHPThreshold is the target HP at or below which karma maximizes damage.
const lowHPThreshold = 5

// Protocol is one of the three attack resolution procedures.
type Protocol int

const (
	// ProtocolPersonAttack: attacker rolls d20 + hit stat vs 12, with karma.
	ProtocolPersonAttack Protocol = iota
	// ProtocolDefenderRoll: a person target rolls the weapon's defense check.
	ProtocolDefenderRoll
	// ProtocolStandard: flat d20 >= 12, no stats and no karma.
	ProtocolStandard
)

// String returns a human-readable protocol label.
func (p Protocol) String() string {
	switch p {
	case ProtocolPersonAttack:
		return "person attack"
	case ProtocolDefenderRoll:
		return "defender roll"
	case ProtocolStandard:
		return "standard"
	default:
		return "unknown"
	}
}

// SelectProtocol picks the resolution procedure from the attacker and target
// kinds and whether the weapon declares a defense.
func SelectProtocol(attacker, target Kind, weapon *inventory.WeaponDef) Protocol {
	switch {
	case attacker == KindPerson:
		return ProtocolPersonAttack
	case target == KindPerson && weapon.ParsedDefense().Present:
		return ProtocolDefenderRoll
	default:
		return ProtocolStandard
	}
}

// interact resolves one attack of actor against target with weapon.
func (b *Battle) interact(actor, target *Combatant, weapon *inventory.Weapon) {
	switch SelectProtocol(actor.Kind, target.Kind, &weapon.WeaponDef) {
	case ProtocolPersonAttack:
		b.personAttack(actor, target, weapon)
	case ProtocolDefenderRoll:
		b.defenderRollAttack(actor, target, weapon)
	case ProtocolStandard:
		b.standardAttack(actor, target, weapon)
	}
}

func ammoNote(w *inventory.Weapon) string {
	if w.HasLimitedAmmo() {
		return fmt.Sprintf(" (ammo left: %d)", w.Ammo)
	}
	return ""
}

func (b *Battle) logAttack(actor, target *Combatant, weapon *inventory.Weapon) {
	b.logf("%s attacks %s with %s!%s", actor.Name, target.Name, weapon.Name, ammoNote(weapon))
}

// personAttack resolves a person's attack check. Karma may cancel a fumble,
// push a near miss over the line, or maximize damage against a low-HP target.
func (b *Battle) personAttack(actor, target *Combatant, weapon *inventory.Weapon) {
	b.logAttack(actor, target, weapon)
	if weapon.HitStat == "" {
		return
	}

	stat := actor.Stat(weapon.HitStat)
	d20 := b.roller.D(20)
	total := d20 + stat

	fumble := d20 == 1
	if fumble && b.useKarma(actor, "cancel fumble") {
		fumble = false
	}
	if !fumble && d20 != 20 && total < personAttackDR && total+karmaCheckBoost >= personAttackDR {
		if b.useKarma(actor, fmt.Sprintf("+%d to check", karmaCheckBoost)) {
			total += karmaCheckBoost
		}
	}

	hit, crit := false, false
	switch {
	case d20 == 20:
		hit, crit = true, true
		b.logf("Critical hit! (natural 20)")
	case fumble:
		b.logf("Fumble! (natural 1)")
		weapon.Broken = true
		b.logf("%s breaks!", weapon.Name)
	default:
		hit = total >= personAttackDR
	}
	if !hit {
		b.logf("The attack misses! (roll %d + %d = %d < %d)", d20, stat, total, personAttackDR)
		return
	}

	dmg := b.roller.ParseAndRoll(weapon.Damage)
	if target.HP > 0 && target.HP <= lowHPThreshold && !crit && b.useKarma(actor, "maximize damage") {
		dmg = b.roller.MaxOf(weapon.Damage)
	}
	if crit {
		dmg *= 2
	}
	b.landHit(actor, target, weapon, dmg, crit)
}

// defenderRollAttack resolves a creature's attack on a person who rolls the
// weapon's defense check. A natural 20 earns the defender a counter-attack; a
// natural 1 doubles the damage and counts as a critical for armor.
func (b *Battle) defenderRollAttack(actor, target *Combatant, weapon *inventory.Weapon) {
	def := weapon.ParsedDefense()
	if !def.Present {
		b.standardAttack(actor, target, weapon)
		return
	}

	if def.Always {
		dmg := 0
		if weapon.Damage != "" && weapon.Damage != "0" {
			b.logf("%s strikes %s with %s! (sure hit)", actor.Name, target.Name, weapon.Name)
			dmg = b.roller.ParseAndRoll(weapon.Damage)
		}
		res := b.applyDamage(target, dmg, false)
		b.logf("%s", res.Narrative)
		b.applyEffect(actor, target, weapon, res.Final)
		return
	}

	b.logAttack(actor, target, weapon)
	stat := target.Stat(def.Stat)
	d20 := b.roller.D(20)
	total := d20 + stat
	b.logf("%s defends (%s vs %d). Roll: %d+%d=%d", target.Name, def.Stat, def.Difficulty, d20, stat, total)

	outcome := OutcomeFor(d20, total, def.Difficulty)
	switch outcome {
	case CritSuccess:
		b.logf("Critical defense! A chance to counter!")
		b.logf("%s defends successfully!", target.Name)
		if counter := selectWeapon(target, b.roller); counter != nil && actor.IsAlive() {
			b.logf("*** %s counter-attacks! ***", target.Name)
			b.personAttack(target, actor, counter)
		}
		return
	case Success:
		b.logf("%s defends successfully!", target.Name)
		return
	case CritFailure:
		b.logf("Defense fumble! Damage doubled, armor -1.")
		if weapon.Effect == inventory.EffectSpearInfection {
			target.AddStatus(condition.Infection, "", 0)
			b.logf("%s is infected by the spear!", target.Name)
		}
	}

	fumble := outcome == CritFailure
	var dmg int
	if weapon.Effect == inventory.EffectShortfallDamage {
		dmg = max(0, def.Difficulty-total)
	} else {
		dmg = b.roller.ParseAndRoll(weapon.Damage)
	}
	if fumble {
		dmg *= 2
	}
	b.landHit(actor, target, weapon, dmg, fumble)
}

// standardAttack resolves an attack with no stats involved: d20 >= 12 hits
// and a natural 20 doubles damage.
func (b *Battle) standardAttack(actor, target *Combatant, weapon *inventory.Weapon) {
	b.logAttack(actor, target, weapon)
	d20 := b.roller.D(20)
	outcome := OutcomeFor(d20, d20, personAttackDR)
	if outcome != CritSuccess && outcome != Success {
		b.logf("The attack misses! (roll %d < %d)", d20, personAttackDR)
		return
	}
	crit := outcome == CritSuccess
	dmg := b.roller.ParseAndRoll(weapon.Damage)
	if crit {
		dmg *= 2
	}
	b.landHit(actor, target, weapon, dmg, crit)
}

// landHit applies damage from a landed attack, then its effect and any
// death triggers of the target.
func (b *Battle) landHit(actor, target *Combatant, weapon *inventory.Weapon, dmg int, crit bool) {
	res := b.applyDamage(target, dmg, crit)
	b.logf("%s", res.Narrative)
	b.applyEffect(actor, target, weapon, res.Final)
	b.checkDeathTriggers(target)
}

// checkDeathTriggers fires the on-death weapons of a freshly killed
// combatant against every living member of its enemy teams. Each combatant
// triggers at most once.
func (b *Battle) checkDeathTriggers(victim *Combatant) {
	if victim.IsAlive() || victim.deathTriggered {
		return
	}
	var triggers []*inventory.Weapon
	for i := range victim.Weapons {
		if victim.Weapons[i].EffectiveUsage() == inventory.UsageOnDeath {
			triggers = append(triggers, &victim.Weapons[i])
		}
	}
	if len(triggers) == 0 {
		return
	}
	victim.deathTriggered = true
	team := b.teamOf(victim)
	if team == nil {
		return
	}
	b.logf("%s's death trigger activates!", victim.Name)
	for _, w := range triggers {
		var targets []*Combatant
		for _, enemy := range b.enemiesOf(team) {
			targets = append(targets, enemy.LivingMembers()...)
		}
		b.logf("%s unleashes %s! (%d targets)", victim.Name, w.Name, len(targets))
		for _, t := range targets {
			b.interact(victim, t, w)
		}
	}
}
