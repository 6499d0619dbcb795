package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

func TestEffect_Phase(t *testing.T) {
	assert.Equal(t, inventory.PhasePreAttack, inventory.EffectHeal.Phase())
	assert.Equal(t, inventory.PhasePreAttack, inventory.EffectRoar.Phase())
	assert.Equal(t, inventory.PhaseResolution, inventory.EffectShortfallDamage.Phase())
	assert.Equal(t, inventory.PhaseResolution, inventory.EffectSpearInfection.Phase())
	assert.Equal(t, inventory.PhaseNone, inventory.EffectNone.Phase())
	assert.Equal(t, inventory.PhasePostDamage, inventory.EffectSummon.Phase())
}

func TestEffect_Valid(t *testing.T) {
	assert.Len(t, inventory.AllEffects(), 17)
	for _, e := range inventory.AllEffects() {
		assert.True(t, e.Valid(), string(e))
	}
	assert.False(t, inventory.Effect("teleport").Valid())
}
