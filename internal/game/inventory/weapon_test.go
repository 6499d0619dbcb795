package inventory_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func katana() inventory.WeaponDef {
	return inventory.WeaponDef{
		Name:     "刀",
		Category: inventory.CategoryMelee,
		HitStat:  inventory.StatBody,
		Defense:  "skill DR12",
		Damage:   "1D6",
	}
}

func TestWeaponDef_Validate_RejectsEmpty(t *testing.T) {
	w := &inventory.WeaponDef{}
	assert.Error(t, w.Validate())
}

func TestWeaponDef_Validate_AcceptsMinimal(t *testing.T) {
	w := katana()
	assert.NoError(t, w.Validate())
}

func TestWeaponDef_Validate_Rejections(t *testing.T) {
	cases := map[string]func(w *inventory.WeaponDef){
		"bad category":       func(w *inventory.WeaponDef) { w.Category = "siege" },
		"bad hit stat":       func(w *inventory.WeaponDef) { w.HitStat = "luck" },
		"bad defense":        func(w *inventory.WeaponDef) { w.Defense = "dodge" },
		"bad damage":         func(w *inventory.WeaponDef) { w.Damage = "lots" },
		"bad effect":         func(w *inventory.WeaponDef) { w.Effect = "teleport" },
		"bad ammo":           func(w *inventory.WeaponDef) { w.Ammo = "heart+x" },
		"sequential no idx":  func(w *inventory.WeaponDef) { w.Usage = inventory.UsageSequential },
		"summon no template": func(w *inventory.WeaponDef) { w.Effect = inventory.EffectSummon },
		"bad attack count":   func(w *inventory.WeaponDef) { w.AttackCount = "many" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			w := katana()
			mutate(&w)
			assert.Error(t, w.Validate())
		})
	}
}

func TestWeaponDef_ResolveAmmo(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 2}, nil)
	cases := []struct {
		ammo  string
		heart int
		want  int
	}{
		{"", 0, inventory.UnlimitedAmmo},
		{"-1", 0, inventory.UnlimitedAmmo},
		{"5", 0, 5},
		{"1D6", 0, 3},
		{"heart+5", 2, 7},
		{"Heart+3", -3, 0},
		{"heart+3", -5, 0},
	}
	for _, tc := range cases {
		w := katana()
		w.Ammo = tc.ammo
		assert.Equal(t, tc.want, w.ResolveAmmo(r, tc.heart), tc.ammo)
	}
}

func TestWeapon_Usable(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{}, nil)
	w := inventory.NewWeapon(katana(), r, 0)
	assert.True(t, w.Usable())
	w.Broken = true
	assert.False(t, w.Usable())
	w.Broken = false
	w.Ammo = 0
	assert.False(t, w.Usable())
}

func TestWeapon_CopiesDoNotAlias(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{}, nil)
	def := katana()
	def.Ammo = "3"
	a := inventory.NewWeapon(def, r, 0)
	b := a
	b.Ammo--
	b.Broken = true
	b.Name = "other"
	assert.Equal(t, 3, a.Ammo)
	assert.False(t, a.Broken)
	assert.Equal(t, "刀", a.Name)
}

func TestUnarmed(t *testing.T) {
	u := inventory.Unarmed()
	require.NoError(t, u.Validate())
	assert.Equal(t, inventory.StatBody, u.HitStat)
	assert.Equal(t, inventory.UnlimitedAmmo, u.Ammo)
	assert.False(t, u.HasLimitedAmmo())
}

func TestWeaponDef_ResolveAmmo_Property(t *testing.T) {
	r := dice.NewLoggedRoller(dice.NewSeededSource(11), nil)
	rapid.Check(t, func(rt *rapid.T) {
		heart := rapid.IntRange(-3, 3).Draw(rt, "heart")
		offset := rapid.IntRange(0, 6).Draw(rt, "offset")
		w := katana()
		w.Ammo = "heart+" + strconv.Itoa(offset)
		got := w.ResolveAmmo(r, heart)
		assert.GreaterOrEqual(rt, got, 0)
		assert.Equal(rt, max(0, heart+offset), got)
	})
}
