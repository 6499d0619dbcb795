package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// TableEntry is one row of a rollable weapon table.
type TableEntry struct {
	Roll      int `yaml:"roll"`
	WeaponDef `yaml:",inline"`
}

// WeaponTable is the rollable starting-weapon table for persons.
type WeaponTable struct {
	Die     int          `yaml:"die"`
	Entries []TableEntry `yaml:"weapons"`
}

// Validate checks every entry and the die size.
func (t *WeaponTable) Validate() error {
	var errs []error
	if t.Die < 1 {
		errs = append(errs, errors.New("die must be >= 1"))
	}
	if len(t.Entries) == 0 {
		errs = append(errs, errors.New("table must contain at least one weapon"))
	}
	seen := make(map[int]bool, len(t.Entries))
	for i := range t.Entries {
		e := &t.Entries[i]
		if seen[e.Roll] {
			errs = append(errs, fmt.Errorf("duplicate roll %d", e.Roll))
		}
		seen[e.Roll] = true
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the weapon for a table roll.
func (t *WeaponTable) Lookup(roll int) (WeaponDef, bool) {
	for _, e := range t.Entries {
		if e.Roll == roll {
			return e.WeaponDef, true
		}
	}
	return WeaponDef{}, false
}

// ByName returns the weapon with the given name.
func (t *WeaponTable) ByName(name string) (WeaponDef, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e.WeaponDef, true
		}
	}
	return WeaponDef{}, false
}

// Roll draws a weapon by rolling the table die. A roll with no entry falls
// back to the first entry.
//
// Precondition: t is valid.
func (t *WeaponTable) Roll(r *dice.Roller) WeaponDef {
	if def, ok := t.Lookup(r.D(t.Die)); ok {
		return def
	}
	return t.Entries[0].WeaponDef
}

// LoadWeaponTableFromBytes parses and validates a weapon table from YAML.
func LoadWeaponTableFromBytes(data []byte) (*WeaponTable, error) {
	var t WeaponTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing weapon table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weapon table: %w", err)
	}
	return &t, nil
}

// LoadWeaponTable reads a weapon table YAML file.
// Precondition: path is a readable file.
// Postcondition: returns a validated table or an error naming the file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadWeaponTable: cannot read file %q: %w", path, err)
	}
	t, err := LoadWeaponTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("LoadWeaponTable: %q: %w", path, err)
	}
	return t, nil
}
