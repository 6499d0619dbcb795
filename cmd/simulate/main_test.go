package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
)

func TestRootCmd_RequiresCreature(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", ""})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--creature is required")
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"鬼"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestRootCmd_FlagDefaults(t *testing.T) {
	f := newRootCmd().Flags()

	party, err := f.GetInt("party")
	require.NoError(t, err)
	assert.Equal(t, 4, party)

	count, err := f.GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	cfg, err := f.GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "configs/dev.yaml", cfg)
}

func TestRootCmd_CreatureAndScenarioExclusive(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", "", "--creature", "oni", "--scenario", "x.yaml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestBuildFactory_Scenario(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(9), nil)
	table, err := inventory.LoadWeaponTable("../../content/weapons/player_weapons.yaml")
	require.NoError(t, err)
	reg, err := npc.LoadRegistry("../../content/creatures", r)
	require.NoError(t, err)

	factory, title, err := buildFactory(options{scenario: "../../content/scenarios/three_way_skirmish.yaml"}, table, reg, r)
	require.NoError(t, err)
	assert.Equal(t, "ronin vs oni, kappa and dogs", title)
	teams, err := factory()
	require.NoError(t, err)
	assert.Len(t, teams, 4)

	_, title, err = buildFactory(options{party: 3, creature: "oni", count: 2}, table, reg, r)
	require.NoError(t, err)
	assert.Equal(t, "3 人間 vs 2 oni", title)

	_, _, err = buildFactory(options{scenario: "missing.yaml"}, table, reg, r)
	assert.Error(t, err)
}

func TestPrintSummary_ListsEveryTeam(t *testing.T) {
	sum := simulate.Summary{
		TotalBattles:  4,
		Elapsed:       1500 * time.Microsecond,
		WinCounts:     map[combat.TeamID]int{combat.TeamA: 3, combat.TeamC: 1},
		WinRates:      map[combat.TeamID]float64{combat.TeamA: 0.75, combat.TeamC: 0.25},
		SurvivalRates: map[combat.TeamID]float64{combat.TeamA: 0.5, combat.TeamC: 0.1},
		FleeRates:     map[combat.TeamID]float64{combat.TeamA: 0, combat.TeamC: 0.2},
	}
	var buf bytes.Buffer
	printSummary(&buf, "skirmish", sum)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "skirmish: 4 battles (karma=false)"))
	assert.Contains(t, out, "team A: wins 3 (75.00%)")
	assert.Contains(t, out, "team C: wins 1 (25.00%)")
}
