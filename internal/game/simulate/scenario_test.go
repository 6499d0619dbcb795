package simulate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/condition"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
)

const duelScenario = `
name: duel
teams:
  - id: A
    type: player
    enemies: [B]
    members:
      - person:
          name: 浪人
          skill: 2
          armor: 1
          hp: 12
          weapons: [刀]
      - person: {}
  - id: B
    type: npc
    enemies: [A]
    members:
      - template: wild_dog_footman
        count: 2
`

func TestLoadScenario_ExampleFile(t *testing.T) {
	s, err := simulate.LoadScenario("../../../content/scenarios/three_way_skirmish.yaml")
	require.NoError(t, err)
	require.Len(t, s.Teams, 4)
	assert.Equal(t, combat.TeamD, s.Teams[3].ID)

	r := seeded(3)
	table, reg := loadContent(t, r)
	factory, err := s.Factory(table, reg, r)
	require.NoError(t, err)
	teams, err := factory()
	require.NoError(t, err)
	require.Len(t, teams, 4)
	assert.Len(t, teams[2].Members, 2)
	assert.Len(t, teams[3].Members, 3)
	assert.Equal(t, []combat.TeamID{combat.TeamA, combat.TeamB, combat.TeamD}, teams[2].Enemies)
}

func TestScenarioFactory_BuildsCustomPersons(t *testing.T) {
	s, err := simulate.LoadScenarioFromBytes([]byte(duelScenario))
	require.NoError(t, err)
	assert.Equal(t, "duel", s.Title())

	r := seeded(11)
	table, reg := loadContent(t, r)
	factory, err := s.Factory(table, reg, r)
	require.NoError(t, err)

	teams, err := factory()
	require.NoError(t, err)
	require.Len(t, teams, 2)

	party := teams[0].Members
	require.Len(t, party, 2)
	ronin := party[0]
	assert.Equal(t, "浪人", ronin.Name)
	assert.True(t, ronin.IsPerson())
	assert.Equal(t, 2, ronin.Stats.Skill)
	assert.Equal(t, 1, ronin.ArmorTier)
	assert.Equal(t, 12, ronin.MaxHP)
	require.Len(t, ronin.Weapons, 1)
	assert.Equal(t, "刀", ronin.Weapons[0].Name)

	assert.Equal(t, "人間-2", party[1].Name)
	assert.Empty(t, party[1].Weapons)

	dogs := teams[1].Members
	require.Len(t, dogs, 2)
	assert.Equal(t, "山犬雑兵 1", dogs[0].Name)
	assert.Equal(t, "山犬雑兵 2", dogs[1].Name)
}

func TestScenarioFactory_FreshClonesPerTrial(t *testing.T) {
	s, err := simulate.LoadScenarioFromBytes([]byte(duelScenario))
	require.NoError(t, err)
	r := seeded(5)
	table, reg := loadContent(t, r)
	factory, err := s.Factory(table, reg, r)
	require.NoError(t, err)

	first, err := factory()
	require.NoError(t, err)
	ronin := first[0].Members[0]
	ronin.HP = 1
	ronin.Weapons[0].Broken = true
	ronin.AddStatus(condition.Charm, "", 0)

	second, err := factory()
	require.NoError(t, err)
	again := second[0].Members[0]
	assert.NotSame(t, ronin, again)
	assert.Equal(t, ronin.ID, again.ID)
	assert.Equal(t, 12, again.HP)
	assert.False(t, again.Weapons[0].Broken)
	assert.Zero(t, again.Statuses.Len())
	assert.Equal(t, first[1].Members[0].MaxHP, second[1].Members[0].MaxHP)
}

func TestScenarioFactory_RunsThroughSimulator(t *testing.T) {
	s, err := simulate.LoadScenario("../../../content/scenarios/three_way_skirmish.yaml")
	require.NoError(t, err)
	r := seeded(21)
	table, reg := loadContent(t, r)
	factory, err := s.Factory(table, reg, r)
	require.NoError(t, err)

	sim := simulate.New(simulate.Options{Roller: r, Spawner: reg})
	sum, err := sim.Run(context.Background(), 20, factory, true)
	require.NoError(t, err)
	assert.Equal(t, 20, sum.TotalBattles)
	assert.Contains(t, sum.TeamIDs(), combat.TeamC)
}

func TestScenarioFactory_UnknownNames(t *testing.T) {
	r := seeded(1)
	table, reg := loadContent(t, r)

	cases := map[string]string{
		"unknown template": `
teams:
  - {id: A, type: player, enemies: [B], members: [{person: {weapons: [刀]}}]}
  - {id: B, type: npc, enemies: [A], members: [{template: nobody}]}
`,
		"unknown weapon": `
teams:
  - {id: A, type: player, enemies: [B], members: [{person: {weapons: [光線銃]}}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := simulate.LoadScenarioFromBytes([]byte(doc))
			require.NoError(t, err)
			_, err = s.Factory(table, reg, r)
			assert.Error(t, err)
		})
	}
}

func TestLoadScenarioFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"one team": `
teams:
  - {id: A, type: player, enemies: [B], members: [{template: oni}]}
`,
		"bad team id": `
teams:
  - {id: E, type: player, enemies: [B], members: [{template: oni}]}
  - {id: B, type: npc, enemies: [E], members: [{template: oni}]}
`,
		"duplicate team": `
teams:
  - {id: A, type: player, enemies: [B], members: [{template: oni}]}
  - {id: A, type: npc, enemies: [B], members: [{template: oni}]}
`,
		"undeclared enemy": `
teams:
  - {id: A, type: player, enemies: [C], members: [{template: oni}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"self enemy": `
teams:
  - {id: A, type: player, enemies: [A, B], members: [{template: oni}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"bad type": `
teams:
  - {id: A, type: ally, enemies: [B], members: [{template: oni}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"empty member": `
teams:
  - {id: A, type: player, enemies: [B], members: [{}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"template and person": `
teams:
  - {id: A, type: player, enemies: [B], members: [{template: oni, person: {name: x}}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"armor out of range": `
teams:
  - {id: A, type: player, enemies: [B], members: [{person: {armor: 5}}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
		"unknown field": `
teams:
  - {id: A, type: player, enemies: [B], members: [{template: oni, colour: red}]}
  - {id: B, type: npc, enemies: [A], members: [{template: oni}]}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := simulate.LoadScenarioFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}
}
