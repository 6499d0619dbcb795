package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDifficulty is the target number for checks with no explicit DR.
const DefaultDifficulty = 12

// Defense is the parsed defender-check requirement of a weapon.
type Defense struct {
	Present    bool // false when the weapon declares no defender check
	Always     bool // the attack lands with no check at all
	Stat       Stat
	Difficulty int
}

// ParseDefense parses "<stat> DR<n>" (the space is optional), "always", or "".
//
// Postcondition: On success with a check, Stat.Valid() is true and Difficulty > 0.
func ParseDefense(s string) (Defense, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return Defense{}, nil
	case "always":
		return Defense{Present: true, Always: true}, nil
	}
	idx := strings.Index(v, "dr")
	if idx < 0 {
		return Defense{}, fmt.Errorf("defense %q: expected \"<stat> DR<n>\" or \"always\"", s)
	}
	stat := Stat(strings.TrimSpace(v[:idx]))
	if !stat.Valid() {
		return Defense{}, fmt.Errorf("defense %q: unknown stat %q", s, stat)
	}
	diff := DefaultDifficulty
	if n := strings.TrimSpace(v[idx+2:]); n != "" {
		d, err := strconv.Atoi(n)
		if err != nil || d < 1 {
			return Defense{}, fmt.Errorf("defense %q: invalid difficulty", s)
		}
		diff = d
	}
	return Defense{Present: true, Stat: stat, Difficulty: diff}, nil
}

// ParsedDefense returns the weapon's defense requirement. Definitions are
// validated at load time, so a parse failure here yields no defense.
func (w *WeaponDef) ParsedDefense() Defense {
	d, err := ParseDefense(w.Defense)
	if err != nil {
		return Defense{}
	}
	return d
}
