package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

const tableYAML = `
die: 2
weapons:
  - roll: 1
    name: 竹槍
    category: melee
    hit_stat: body
    defense: skill DR12
    damage: 1D4
  - roll: 2
    name: 手裏剣
    category: ranged
    hit_stat: heart
    defense: skill DR12
    damage: 1D4
    ammo: 1D6
`

func TestLoadWeaponTableFromBytes(t *testing.T) {
	tbl, err := inventory.LoadWeaponTableFromBytes([]byte(tableYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Die)
	require.Len(t, tbl.Entries, 2)

	w, ok := tbl.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "手裏剣", w.Name)
	assert.True(t, w.IsRanged())

	_, ok = tbl.ByName("竹槍")
	assert.True(t, ok)
	_, ok = tbl.Lookup(9)
	assert.False(t, ok)
}

func TestLoadWeaponTableFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := inventory.LoadWeaponTableFromBytes([]byte("die: 1\nweapons: []\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestLoadWeaponTableFromBytes_RejectsDuplicateRoll(t *testing.T) {
	data := `
die: 1
weapons:
  - {roll: 1, name: a, category: melee, damage: "1"}
  - {roll: 1, name: b, category: melee, damage: "1"}
`
	_, err := inventory.LoadWeaponTableFromBytes([]byte(data))
	assert.Error(t, err)
}

func TestWeaponTable_Roll(t *testing.T) {
	tbl, err := inventory.LoadWeaponTableFromBytes([]byte(tableYAML))
	require.NoError(t, err)
	r := dice.NewLoggedRoller(fixedSrc{val: 1}, nil)
	assert.Equal(t, "手裏剣", tbl.Roll(r).Name)
}

func TestLoadWeaponTable_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tableYAML), 0644))
	tbl, err := inventory.LoadWeaponTable(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Entries, 2)

	_, err = inventory.LoadWeaponTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedPlayerWeaponTable(t *testing.T) {
	tbl, err := inventory.LoadWeaponTable(filepath.Join("..", "..", "..", "content", "weapons", "player_weapons.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 12, tbl.Die)
	assert.Len(t, tbl.Entries, 13)
	gun, ok := tbl.ByName("種子島銃")
	require.True(t, ok)
	assert.Equal(t, "heart+5", gun.Ammo)
}
