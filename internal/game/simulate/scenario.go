package simulate

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/character"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
)

// Scenario is a hand-built battle loaded from YAML: two to four teams mixing
// creature templates and explicitly specified persons.
type Scenario struct {
	Name  string     `yaml:"name"`
	Teams []TeamSpec `yaml:"teams"`
}

// TeamSpec declares one team of a scenario.
type TeamSpec struct {
	ID      combat.TeamID   `yaml:"id"`
	Type    combat.TeamType `yaml:"type"`
	Enemies []combat.TeamID `yaml:"enemies"`
	Members []MemberSpec    `yaml:"members"`
}

// MemberSpec is either Count creatures of a template or a single person.
type MemberSpec struct {
	Template string      `yaml:"template"`
	Count    int         `yaml:"count"` // 0 means 1
	Person   *PersonSpec `yaml:"person"`
}

// PersonSpec describes a person by stats, armor tier and weapon table names.
type PersonSpec struct {
	Name       string   `yaml:"name"`
	Heart      int      `yaml:"heart"`
	Skill      int      `yaml:"skill"`
	Body       int      `yaml:"body"`
	Durability int      `yaml:"durability"`
	Armor      int      `yaml:"armor"`
	HP         int      `yaml:"hp"` // overrides the rolled max HP when > 0
	Weapons    []string `yaml:"weapons"`
}

func (p *PersonSpec) stats() combat.Stats {
	return combat.Stats{Heart: p.Heart, Skill: p.Skill, Body: p.Body, Durability: p.Durability}
}

// Validate checks the team layout and member declarations. Template and
// weapon names are resolved later by Factory.
//
// Postcondition: Returns nil iff the scenario is structurally valid; otherwise
// an error joining every violation.
func (s *Scenario) Validate() error {
	var errs []error
	if n := len(s.Teams); n < 2 || n > 4 {
		errs = append(errs, fmt.Errorf("scenario must declare 2-4 teams, got %d", n))
	}

	declared := make(map[combat.TeamID]bool, len(s.Teams))
	for _, t := range s.Teams {
		if !t.ID.Valid() {
			errs = append(errs, fmt.Errorf("team id %q must be one of A, B, C, D", t.ID))
			continue
		}
		if declared[t.ID] {
			errs = append(errs, fmt.Errorf("team %s declared twice", t.ID))
		}
		declared[t.ID] = true
	}

	for _, t := range s.Teams {
		if t.Type != combat.TeamPlayer && t.Type != combat.TeamNPC {
			errs = append(errs, fmt.Errorf("team %s: type %q must be player or npc", t.ID, t.Type))
		}
		if len(t.Enemies) == 0 {
			errs = append(errs, fmt.Errorf("team %s: enemies must not be empty", t.ID))
		}
		for _, e := range t.Enemies {
			switch {
			case e == t.ID:
				errs = append(errs, fmt.Errorf("team %s: cannot be its own enemy", t.ID))
			case !declared[e]:
				errs = append(errs, fmt.Errorf("team %s: enemy %q is not a declared team", t.ID, e))
			}
		}
		if len(t.Members) == 0 {
			errs = append(errs, fmt.Errorf("team %s: members must not be empty", t.ID))
		}
		for i, m := range t.Members {
			if err := m.validate(); err != nil {
				errs = append(errs, fmt.Errorf("team %s member %d: %w", t.ID, i+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (m MemberSpec) validate() error {
	switch {
	case m.Template == "" && m.Person == nil:
		return errors.New("needs a template or a person")
	case m.Template != "" && m.Person != nil:
		return errors.New("template and person are mutually exclusive")
	case m.Count < 0:
		return fmt.Errorf("count must be >= 0, got %d", m.Count)
	case m.Person != nil && m.Count > 1:
		return errors.New("count applies to templates only")
	case m.Person != nil && (m.Person.Armor < 0 || m.Person.Armor > 4):
		return fmt.Errorf("armor tier must be 0-4, got %d", m.Person.Armor)
	case m.Person != nil && m.Person.HP < 0:
		return fmt.Errorf("hp must be >= 0, got %d", m.Person.HP)
	}
	return nil
}

// LoadScenarioFromBytes parses and validates a scenario. Unknown fields are
// rejected.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return &s, nil
}

// LoadScenario reads and validates the scenario file at path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	s, err := LoadScenarioFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return s, nil
}

// Title names the scenario for reports.
func (s *Scenario) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return "scenario"
}

// Factory builds the scenario roster once and returns a TeamFactory that
// hands every trial fresh clones of it. Unknown templates or weapon names
// fail here, before any trial runs.
//
// Precondition: table, reg and r must be non-nil; s is valid.
func (s *Scenario) Factory(table *inventory.WeaponTable, reg *npc.Registry, r *dice.Roller) (TeamFactory, error) {
	rosters := make([][]*combat.Combatant, len(s.Teams))
	persons := 0
	for i, t := range s.Teams {
		for _, m := range t.Members {
			if m.Person != nil {
				persons++
				p, err := buildPerson(m.Person, persons, table, r)
				if err != nil {
					return nil, fmt.Errorf("scenario team %s: %w", t.ID, err)
				}
				rosters[i] = append(rosters[i], p)
				continue
			}
			spawn, err := reg.Factory(m.Template)
			if err != nil {
				return nil, fmt.Errorf("scenario team %s: %w", t.ID, err)
			}
			count := max(m.Count, 1)
			for j := 1; j <= count; j++ {
				c := spawn()
				if count > 1 {
					c.Name = fmt.Sprintf("%s %d", c.Name, j)
				}
				rosters[i] = append(rosters[i], c)
			}
		}
	}

	return func() ([]*combat.Team, error) {
		teams := make([]*combat.Team, len(s.Teams))
		for i, t := range s.Teams {
			members := make([]*combat.Combatant, len(rosters[i]))
			for j, c := range rosters[i] {
				members[j] = c.Clone()
			}
			teams[i] = combat.NewTeam(t.ID, t.Type, members, t.Enemies...)
		}
		return teams, nil
	}, nil
}

func buildPerson(ps *PersonSpec, n int, table *inventory.WeaponTable, r *dice.Roller) (*combat.Combatant, error) {
	spec := character.Spec{Name: ps.Name, Stats: ps.stats(), ArmorTier: ps.Armor}
	if spec.Name == "" {
		spec.Name = character.MemberName(n)
	}
	for _, name := range ps.Weapons {
		def, ok := table.ByName(name)
		if !ok {
			return nil, fmt.Errorf("person %q: unknown weapon %q", spec.Name, name)
		}
		spec.Weapons = append(spec.Weapons, def)
	}
	p, err := character.BuildCustom(spec, r)
	if err != nil {
		return nil, err
	}
	if ps.HP > 0 {
		p.MaxHP, p.HP = ps.HP, ps.HP
	}
	return p, nil
}
