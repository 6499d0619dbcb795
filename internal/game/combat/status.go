package combat

import (
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// Recovery difficulties for start-of-turn saves.
const (
	charmSaveDR  = 12
	roarSaveDR   = 10
	breathSaveDR = 8
)

// startOfTurn resolves statuses that tick or allow a save at the start of
// the bearer's slot. Each status is handled independently.
func (b *Battle) startOfTurn(c *Combatant) {
	if st, ok := c.statuses().Get(condition.Unconscious); ok {
		st.Value--
		if st.Value <= 0 {
			c.RemoveStatus(condition.Unconscious)
			healed := c.Heal(b.roller.D(4))
			b.logf("%s regains consciousness! (HP+%d)", c.Name, healed)
		} else {
			b.logf("%s remains unconscious (%d turns left)...", c.Name, st.Value)
		}
	}

	if c.HasStatus(condition.Charm) {
		stat, d20 := c.Stat(inventory.StatHeart), b.roller.D(20)
		if d20+stat >= charmSaveDR {
			c.RemoveStatus(condition.Charm)
			b.logf("%s shakes off the charm! (%d+%d >= %d)", c.Name, d20, stat, charmSaveDR)
		} else {
			b.logf("%s remains charmed... (%d+%d < %d)", c.Name, d20, stat, charmSaveDR)
		}
	}

	if c.HasStatus(condition.Roar) {
		stat, d20 := c.Stat(inventory.StatHeart), b.roller.D(20)
		if d20+stat >= roarSaveDR {
			c.RemoveStatus(condition.Roar)
			c.AddStatus(condition.RoarImmunity, "", 0)
			b.logf("%s recovers from the roar and can no longer be frightened by it.", c.Name)
		}
	}

	if st, ok := c.statuses().Get(condition.Paralysis); ok && st.SourceID == condition.SourceBreath {
		stat, d20 := c.Stat(inventory.StatDurability), b.roller.D(20)
		if d20+stat >= breathSaveDR {
			c.RemoveStatus(condition.Paralysis)
			b.logf("%s recovers from the paralyzing breath!", c.Name)
		} else {
			b.logf("%s suffers from the paralyzing breath (HP-1).", c.Name)
			if msg := c.LoseHP(1, b.roller); msg != "" {
				b.logf("%s", msg)
			}
		}
	}
}

// endOfTurn resolves statuses that drain or expire after the bearer's slot.
func (b *Battle) endOfTurn(c *Combatant) {
	if st, ok := c.statuses().Get(condition.Charm); ok && st.SourceID != "" {
		if charmer := b.findByID(st.SourceID); charmer != nil && charmer.IsAlive() {
			b.logf("Charm drains: %s HP+1, %s HP-1.", charmer.Name, c.Name)
			charmer.Heal(1)
			res := b.applyDamage(c, 1, false)
			b.logf("%s", res.Narrative)
		}
	}

	if st, ok := c.statuses().Get(condition.Paralysis); ok && st.SourceID != condition.SourceBreath {
		c.RemoveStatus(condition.Paralysis)
		b.logf("%s is no longer paralyzed.", c.Name)
	}

	if c.HasStatus(condition.KickDebuff) {
		c.RemoveStatus(condition.KickDebuff)
		b.logf("%s regains their footing.", c.Name)
	}
}
