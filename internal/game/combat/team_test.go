package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
)

func creatures(n, hp, morale int) []*combat.Combatant {
	out := make([]*combat.Combatant, n)
	for i := range out {
		out[i] = combat.NewCreature("c", hp, morale)
	}
	return out
}

func TestTeam_MoraleNeverCheckedForTeamA(t *testing.T) {
	members := creatures(2, 10, 0)
	members[0].AddStatus(condition.Dead, "", 0)
	team := combat.NewTeam(combat.TeamA, combat.TeamPlayer, members, combat.TeamB)
	check := team.CheckMorale(roller(5))
	assert.False(t, check.Checked)
	assert.Equal(t, combat.MoraleHold, check.Result)
	assert.False(t, team.Routed || team.Surrendered)
}

func TestTeam_NoTriggerNoCheck(t *testing.T) {
	team := combat.NewTeam(combat.TeamB, combat.TeamNPC, creatures(3, 10, 7), combat.TeamA)
	check := team.CheckMorale(roller(5))
	assert.False(t, check.Checked)
}

func TestTeam_SingleMemberLowHPTriggers(t *testing.T) {
	members := creatures(1, 10, 12)
	members[0].HP = 2
	team := combat.NewTeam(combat.TeamB, combat.TeamNPC, members, combat.TeamA)
	check := team.CheckMorale(roller(0))
	require.True(t, check.Checked)
	assert.Contains(t, check.Reasons, combat.ReasonLowHPSingle)
	assert.Equal(t, 2, check.Roll)
	assert.Equal(t, 12, check.Target)
	assert.Equal(t, combat.MoraleHold, check.Result)
}

func TestTeam_MoraleFailureRoutsOrSurrenders(t *testing.T) {
	members := creatures(2, 10, 1)
	members[0].AddStatus(condition.Dead, "", 0)

	routTeam := combat.NewTeam(combat.TeamB, combat.TeamNPC, members, combat.TeamA)
	check := routTeam.CheckMorale(roller(0)) // 2d6=2 > 1, 1d6=1
	assert.Equal(t, combat.MoraleRout, check.Result)
	assert.ElementsMatch(t, []string{combat.ReasonLeaderDown, combat.ReasonHalfLost}, check.Reasons)
	assert.True(t, routTeam.Routed)

	again := routTeam.CheckMorale(roller(0))
	assert.False(t, again.Checked)
	assert.Equal(t, combat.MoraleRout, again.Result)

	members2 := creatures(2, 10, 1)
	members2[0].AddStatus(condition.Dead, "", 0)
	surrenderTeam := combat.NewTeam(combat.TeamC, combat.TeamNPC, members2, combat.TeamA)
	check = surrenderTeam.CheckMorale(roller(5)) // 2d6=12 > 1, 1d6=6
	assert.Equal(t, combat.MoraleSurrender, check.Result)
	assert.True(t, surrenderTeam.Surrendered)
}

func TestTeam_RoutedOrSurrenderedHasNoActiveMembers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "members")
		team := combat.NewTeam(combat.TeamB, combat.TeamNPC, creatures(n, 10, 5), combat.TeamA)
		team.Routed = rapid.Bool().Draw(rt, "routed")
		team.Surrendered = !team.Routed
		assert.False(rt, team.HasActiveMembers())
	})
}

func TestTeam_Stats(t *testing.T) {
	members := creatures(4, 10, 5)
	members[0].AddStatus(condition.Dead, "", 0)
	members[1].AddStatus(condition.Rout, "", 0)
	team := combat.NewTeam(combat.TeamB, combat.TeamNPC, members, combat.TeamA)

	assert.Equal(t, combat.TeamStats{Initial: 4, Final: 2, Fled: 1}, team.Stats())
	team.Routed = true
	assert.Equal(t, combat.TeamStats{Initial: 4, Final: 0, Fled: 3}, team.Stats())
}

func TestTeam_LivingAndActive(t *testing.T) {
	members := creatures(3, 10, 5)
	members[0].AddStatus(condition.Unconscious, "", 2)
	members[1].AddStatus(condition.Rout, "", 0)
	team := combat.NewTeam(combat.TeamB, combat.TeamNPC, members, combat.TeamA)
	assert.Len(t, team.LivingMembers(), 2)
	assert.Len(t, team.ActiveMembers(), 1)
	assert.True(t, team.HasActiveMembers())
	assert.True(t, team.IsEnemy(combat.TeamA))
	assert.False(t, team.IsEnemy(combat.TeamC))
	assert.Same(t, members[0], team.Leader())
}
