package combat

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// Effect save difficulties.
const (
	roarDR        = 10
	shirikodamaDR = 15
	abyssDR       = 15
	breathDR      = 8
	infectionDR   = 15
	intimidateDR  = 15
	kickDR        = 8

	// shirikodamaLethalStacks is the stack count at which the target dies.
	shirikodamaLethalStacks = 4
	abyssHeal               = 2
)

// effectHandler applies a post-damage effect. dealt is the damage that got
// through armor.
type effectHandler func(b *Battle, attacker, target *Combatant, weapon *inventory.Weapon, dealt int)

// effectTable holds a handler for every effect in the catalog. Effects that
// act before the attack or during resolution have a no-op post-damage handler.
var effectTable = map[inventory.Effect]effectHandler{
	inventory.EffectNone:            noEffect,
	inventory.EffectHeal:            noEffect,
	inventory.EffectRoar:            noEffect,
	inventory.EffectSpearInfection:  noEffect,
	inventory.EffectShortfallDamage: noEffect,
	inventory.EffectCharm:           charmEffect,
	inventory.EffectParalysis:       paralysisEffect,
	inventory.EffectShirikodama:     shirikodamaEffect,
	inventory.EffectAbyss:           abyssEffect,
	inventory.EffectParalysisBreath: breathEffect,
	inventory.EffectRatInfection:    ratInfectionEffect,
	inventory.EffectIntimidate:      intimidateEffect,
	inventory.EffectKick:            kickEffect,
	inventory.EffectLick:            lickEffect,
	inventory.EffectUnequip:         unequipEffect,
	inventory.EffectDance:           danceEffect,
	inventory.EffectSummon:          summonEffect,
}

// applyEffect dispatches the weapon's post-damage effect.
func (b *Battle) applyEffect(attacker, target *Combatant, weapon *inventory.Weapon, dealt int) {
	h, ok := effectTable[weapon.Effect]
	if !ok {
		b.logger.Warn("combat: weapon has unknown effect", zap.String("weapon", weapon.Name), zap.String("effect", string(weapon.Effect)))
		return
	}
	h(b, attacker, target, weapon, dealt)
}

// applyPreAttack runs the effects that fire once per target before the attack.
func (b *Battle) applyPreAttack(actor *Combatant, team *Team, weapon *inventory.Weapon) {
	if weapon.Effect.Phase() != inventory.PhasePreAttack {
		return
	}
	switch weapon.Effect {
	case inventory.EffectHeal:
		healed := actor.Heal(b.roller.D(6))
		b.logf("%s recovers %d HP.", actor.Name, healed)
	case inventory.EffectRoar:
		b.roar(actor, team)
	}
}

// roar frightens every active enemy without immunity that fails a heart save.
func (b *Battle) roar(actor *Combatant, team *Team) {
	b.logf("%s roars to frighten the enemy!", actor.Name)
	for _, enemy := range b.enemiesOf(team) {
		for _, m := range enemy.ActiveMembers() {
			if m.HasStatus(condition.RoarImmunity) {
				continue
			}
			stat, d20 := m.Stat(inventory.StatHeart), b.roller.D(20)
			if d20+stat < roarDR {
				m.AddStatus(condition.Roar, "", 0)
				b.logf("%s is terrified by the roar! (%d+%d < %d)", m.Name, d20, stat, roarDR)
			}
		}
	}
}

// failsSave rolls d20 + stat for c and reports whether it fails against dr.
func (b *Battle) failsSave(c *Combatant, stat inventory.Stat, dr int) (failed bool, d20, value int) {
	value, d20 = c.Stat(stat), b.roller.D(20)
	return d20+value < dr, d20, value
}

func noEffect(*Battle, *Combatant, *Combatant, *inventory.Weapon, int) {}

func charmEffect(b *Battle, attacker, target *Combatant, _ *inventory.Weapon, _ int) {
	target.AddStatus(condition.Charm, attacker.ID, 0)
	b.logf("%s is charmed!", target.Name)
}

func paralysisEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	target.AddStatus(condition.Paralysis, "", 0)
	b.logf("%s is paralyzed!", target.Name)
}

func shirikodamaEffect(b *Battle, attacker, target *Combatant, _ *inventory.Weapon, dealt int) {
	if dealt <= 0 {
		return
	}
	if failed, d20, stat := b.failsSave(target, inventory.StatDurability, shirikodamaDR); failed {
		b.logf("%s's shirikodama is pulled out! Durability -1. (%d+%d < %d)", target.Name, d20, stat, shirikodamaDR)
		b.addShirikodama(attacker, target)
	}
}

// addShirikodama adds one stack, lowers durability by 1, and kills the
// target outright at the lethal stack count regardless of HP.
func (b *Battle) addShirikodama(attacker, target *Combatant) {
	target.AddStatus(condition.Shirikodama, attacker.ID, 1)
	target.AdjustStat(inventory.StatDurability, -1)
	if target.statuses().Stacks(condition.Shirikodama) >= shirikodamaLethalStacks && target.IsAlive() {
		target.AddStatus(condition.Dead, "", 0)
		msg := fmt.Sprintf("%s has lost every shirikodama (durability -%d) and dies!", target.Name, shirikodamaLethalStacks)
		if b.isLeader(target) {
			msg = leaderTag + msg
		}
		b.logf("%s", msg)
	}
}

func abyssEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	target.Heal(abyssHeal)
	failed, d20, stat := b.failsSave(target, inventory.StatHeart, abyssDR)
	if !failed {
		b.logf("%s stares into the abyss and endures.", target.Name)
		return
	}
	dmg := b.roller.D(6)
	b.logf("The abyss swallows %s! (%d+%d < %d) %d damage.", target.Name, d20, stat, abyssDR, dmg)
	res := b.applyDamage(target, dmg, false)
	b.logf("%s", res.Narrative)
}

func breathEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	if failed, _, _ := b.failsSave(target, inventory.StatDurability, breathDR); failed {
		target.AddStatus(condition.Paralysis, condition.SourceBreath, 0)
		b.logf("%s is paralyzed by the breath!", target.Name)
	}
}

func ratInfectionEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, dealt int) {
	if dealt <= 0 {
		return
	}
	if failed, _, _ := b.failsSave(target, inventory.StatDurability, infectionDR); failed {
		target.AddStatus(condition.Infection, "", 0)
		target.AddStatus(condition.Rout, "", 0)
		b.logf("%s is infected and panics!", target.Name)
	}
}

func intimidateEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, dealt int) {
	if dealt <= 0 {
		return
	}
	if failed, _, _ := b.failsSave(target, inventory.StatHeart, intimidateDR); failed {
		target.AddStatus(condition.Rout, "", 0)
		b.logf("%s is overawed and flees!", target.Name)
	}
}

func kickEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	if failed, _, _ := b.failsSave(target, inventory.StatBody, kickDR); failed {
		target.AddStatus(condition.KickDebuff, "", 0)
		b.logf("%s is knocked off balance! (checks -2)", target.Name)
	}
}

func lickEffect(b *Battle, attacker, _ *Combatant, _ *inventory.Weapon, _ int) {
	attacker.Heal(1)
	b.logf("%s licks its lips and recovers 1 HP.", attacker.Name)
}

func unequipEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	b.logf("%s", target.DropEquipment(b.roller))
}

func danceEffect(b *Battle, _, target *Combatant, _ *inventory.Weapon, _ int) {
	target.AddStatus(condition.DanceSeduced, "", 0)
	b.logf("%s is drawn in by the dance! (checks -3)", target.Name)
}

// summonEffect adds a reinforcement from weapon.Summon to the attacker's team.
func summonEffect(b *Battle, attacker, _ *Combatant, weapon *inventory.Weapon, _ int) {
	team := b.teamOf(attacker)
	if team == nil {
		return
	}
	if b.spawner == nil {
		b.logf("%s's %s summons nothing.", attacker.Name, weapon.Name)
		return
	}
	unit, err := b.spawner.Spawn(weapon.Summon)
	if err != nil {
		b.logger.Warn("combat: summon failed", zap.String("template", weapon.Summon), zap.Error(err))
		b.logf("%s's %s summons nothing.", attacker.Name, weapon.Name)
		return
	}
	if weapon.SummonHP != "" {
		hp := max(1, b.roller.ParseAndRoll(weapon.SummonHP))
		unit.MaxHP, unit.HP = hp, hp
	}
	unit.Name = nextSummonName(team, weapon.Summon)
	team.Members = append(team.Members, unit)
	b.logf("[Summon] %s's %s calls %s (HP:%d) to the field!", attacker.Name, weapon.Name, unit.Name, unit.HP)
}

// nextSummonName returns base-N where N is one past the highest numbered
// teammate named after base, or 2 if only an unnumbered one exists.
func nextSummonName(team *Team, base string) string {
	next := 1
	for _, m := range team.Members {
		if m.Name == base {
			next = max(next, 2)
			continue
		}
		suffix, ok := strings.CutPrefix(m.Name, base+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%d", base, next)
}
