package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

func TestParseDefense(t *testing.T) {
	cases := []struct {
		in   string
		want inventory.Defense
	}{
		{"", inventory.Defense{}},
		{"always", inventory.Defense{Present: true, Always: true}},
		{"skill DR12", inventory.Defense{Present: true, Stat: inventory.StatSkill, Difficulty: 12}},
		{"heart dr15", inventory.Defense{Present: true, Stat: inventory.StatHeart, Difficulty: 15}},
		{"durabilityDR8", inventory.Defense{Present: true, Stat: inventory.StatDurability, Difficulty: 8}},
		{"body DR", inventory.Defense{Present: true, Stat: inventory.StatBody, Difficulty: 12}},
	}
	for _, tc := range cases {
		got, err := inventory.ParseDefense(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseDefense_Errors(t *testing.T) {
	for _, in := range []string{"dodge", "luck DR12", "skill DRx", "skill DR0"} {
		_, err := inventory.ParseDefense(in)
		assert.Error(t, err, in)
	}
}
