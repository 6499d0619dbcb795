// Package npc provides creature template definitions and the registry that
// spawns fresh creatures from them.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
)

// maxArmorTier is the highest "lvN" armor tier a template may declare.
const maxArmorTier = 4

// Traits configures the special rules of a creature.
type Traits struct {
	Flying          bool   `yaml:"flying"`
	GroundingWeapon string `yaml:"grounding_weapon"`
	PanicGroup      string `yaml:"panic_group"`
	DamageCap       int    `yaml:"damage_cap"`
}

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// HP is a dice notation or bare integer rolled at spawn time.
	HP     string `yaml:"hp"`
	Morale int    `yaml:"morale"`
	// MoraleEqualsHP sets morale to the rolled max HP, ignoring Morale.
	MoraleEqualsHP bool `yaml:"morale_equals_hp"`
	// Armor is "lvN" (N in 0..4), a reduction notation such as "-1D6", or "none".
	Armor            string                `yaml:"armor"`
	TargetPreference string                `yaml:"target_preference"`
	Traits           Traits                `yaml:"traits"`
	Weapons          []inventory.WeaponDef `yaml:"weapons"`
}

// ParseArmor splits an armor declaration into a tier or a reduction notation.
//
// Postcondition: at most one of tier > 0 and notation != "" holds.
func ParseArmor(s string) (tier int, notation string, err error) {
	a := strings.ToLower(strings.TrimSpace(s))
	switch {
	case a == "" || a == "none":
		return 0, "", nil
	case strings.HasPrefix(a, "lv"):
		tier, err = strconv.Atoi(strings.TrimPrefix(a, "lv"))
		if err != nil || tier < 0 || tier > maxArmorTier {
			return 0, "", fmt.Errorf("armor %q: tier must be lv0-lv%d", s, maxArmorTier)
		}
		return tier, "", nil
	default:
		if _, err := dice.Parse(strings.TrimPrefix(a, "-")); err != nil {
			return 0, "", fmt.Errorf("armor %q: %w", s, err)
		}
		return 0, strings.TrimSpace(s), nil
	}
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every field is valid; otherwise an error
// joining every violation.
func (t *Template) Validate() error {
	if t.ID == "" {
		return errors.New("npc template: id must not be empty")
	}
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if hp, err := dice.Parse(t.HP); err != nil {
		errs = append(errs, fmt.Errorf("hp: %w", err))
	} else if hp.Max() < 1 {
		errs = append(errs, fmt.Errorf("hp %q can never reach 1", t.HP))
	}
	if t.Morale < 0 {
		errs = append(errs, errors.New("morale must be >= 0"))
	}
	if _, _, err := ParseArmor(t.Armor); err != nil {
		errs = append(errs, err)
	}
	switch combat.TargetPreference(t.TargetPreference) {
	case "", combat.TargetRandom, combat.TargetHighHP, combat.TargetLowHP:
	default:
		errs = append(errs, fmt.Errorf("target_preference %q must be one of random, high_hp, low_hp", t.TargetPreference))
	}
	if t.Traits.DamageCap < 0 {
		errs = append(errs, errors.New("traits.damage_cap must be >= 0"))
	}
	if len(t.Weapons) == 0 {
		errs = append(errs, errors.New("at least one weapon is required"))
	}
	names := make(map[string]bool, len(t.Weapons))
	for i := range t.Weapons {
		if err := t.Weapons[i].Validate(); err != nil {
			errs = append(errs, err)
		}
		names[t.Weapons[i].Name] = true
	}
	if g := t.Traits.GroundingWeapon; g != "" && !names[g] {
		errs = append(errs, fmt.Errorf("traits.grounding_weapon %q is not one of the template's weapons", g))
	}
	if len(errs) > 0 {
		return fmt.Errorf("npc template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses a single creature template from raw YAML bytes.
// Unknown fields are rejected.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir, in file name order, and
// returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
