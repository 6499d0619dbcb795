package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// DefaultMaxTurns is the turn cap after which a battle ends as a timeout.
const DefaultMaxTurns = 100

// Battle lifecycle states.
const (
	StateSetup    = "setup"
	StateTurnLoop = "turn_loop"
	StateEnded    = "ended"
)

const (
	eventStart  = "start"
	eventFinish = "finish"
)

// ErrBattleAlreadyRun is returned when Run is called on a battle that has
// already started.
var ErrBattleAlreadyRun = errors.New("combat: battle already run")

// Spawner creates reinforcement creatures by template name for the summon effect.
type Spawner interface {
	Spawn(name string) (*Combatant, error)
}

// Options configures a Battle.
type Options struct {
	// Karma enables the karma subsystem for persons.
	Karma bool
	// Roller supplies all randomness. Required.
	Roller *dice.Roller
	// Logger receives lifecycle diagnostics; nil disables logging.
	Logger *zap.Logger
	// Spawner resolves summon effects; nil makes summons fizzle.
	Spawner Spawner
	// MaxTurns overrides DefaultMaxTurns when > 0.
	MaxTurns int
}

// Result is the outcome of one battle.
type Result struct {
	Winners   []TeamID
	Log       []string
	TeamStats map[TeamID]TeamStats
	Timeout   bool
	Turns     int
}

// Draw reports whether the battle ended before the cap with no team standing.
func (r Result) Draw() bool {
	return !r.Timeout && len(r.Winners) == 0
}

// Battle runs one fight between teams to completion.
// A Battle is single-use and not safe for concurrent use.
type Battle struct {
	teams    []*Team
	roller   *dice.Roller
	logger   *zap.Logger
	spawner  Spawner
	karma    bool
	maxTurns int

	state     *fsm.FSM
	turn      int
	over      bool
	timeout   bool
	narrative []string
}

// NewBattle prepares a battle between teams.
//
// Precondition: opts.Roller must be non-nil; teams must not be shared with another battle.
// Postcondition: State() == StateSetup.
func NewBattle(teams []*Team, opts Options) *Battle {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	b := &Battle{
		teams:    teams,
		roller:   opts.Roller,
		logger:   logger,
		spawner:  opts.Spawner,
		karma:    opts.Karma,
		maxTurns: maxTurns,
	}
	b.state = fsm.NewFSM(
		StateSetup,
		fsm.Events{
			{Name: eventStart, Src: []string{StateSetup}, Dst: StateTurnLoop},
			{Name: eventFinish, Src: []string{StateTurnLoop}, Dst: StateEnded},
		},
		fsm.Callbacks{
			"enter_" + StateTurnLoop: func(_ context.Context, _ *fsm.Event) { b.logRoster() },
			"enter_" + StateEnded:    func(_ context.Context, _ *fsm.Event) { b.logEnd() },
		},
	)
	return b
}

// State returns the current lifecycle state.
func (b *Battle) State() string { return b.state.Current() }

// Teams returns the battle's teams.
func (b *Battle) Teams() []*Team { return b.teams }

// Turn returns the current turn number.
func (b *Battle) Turn() int { return b.turn }

// Run executes the turn loop until at most one team remains active or the
// turn cap is reached.
//
// Postcondition: State() == StateEnded on success; Result.Turns <= max turns.
func (b *Battle) Run(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := b.state.Event(ctx, eventStart); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBattleAlreadyRun, err)
	}
	for !b.over && b.turn < b.maxTurns {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		b.turn++
		b.processTurn()
		b.checkWin()
	}
	b.timeout = !b.over
	if err := b.state.Event(ctx, eventFinish); err != nil {
		return Result{}, fmt.Errorf("combat: finishing battle: %w", err)
	}

	stats := make(map[TeamID]TeamStats, len(b.teams))
	for _, t := range b.teams {
		stats[t.ID] = t.Stats()
	}
	return Result{
		Winners:   b.activeTeamIDs(),
		Log:       b.narrative,
		TeamStats: stats,
		Timeout:   b.timeout,
		Turns:     b.turn,
	}, nil
}

// logf appends a turn-stamped narrative line.
func (b *Battle) logf(format string, args ...any) {
	b.narrative = append(b.narrative, fmt.Sprintf("[T%d] ", b.turn)+fmt.Sprintf(format, args...))
}

func (b *Battle) logRoster() {
	b.logf("Battle begins!")
	for _, t := range b.teams {
		if len(t.Members) == 0 {
			continue
		}
		b.logf("Team %s roster:", t.ID)
		for _, m := range t.Members {
			names := make([]string, 0, len(m.Weapons))
			for _, w := range m.Weapons {
				if w.HasLimitedAmmo() {
					names = append(names, fmt.Sprintf("%s(%d)", w.Name, w.Ammo))
				} else {
					names = append(names, w.Name)
				}
			}
			b.logf(" - %s (HP:%d, armor: %s, weapons: [%s])", m.Name, m.HP, m.ArmorLabel(), strings.Join(names, ", "))
		}
	}
	b.logger.Debug("battle started", zap.Int("teams", len(b.teams)), zap.Bool("karma", b.karma))
}

func (b *Battle) logEnd() {
	if b.timeout {
		b.logf("Turn limit reached; the battle ends.")
	}
	winners := b.activeTeamIDs()
	ids := make([]string, len(winners))
	for i, w := range winners {
		ids[i] = string(w)
	}
	b.logger.Debug("battle ended",
		zap.Int("turns", b.turn),
		zap.Bool("timeout", b.timeout),
		zap.Strings("winners", ids),
	)
}

func (b *Battle) checkWin() {
	active := 0
	for _, t := range b.teams {
		if t.HasActiveMembers() {
			active++
		}
	}
	if active <= 1 {
		b.over = true
	}
}

func (b *Battle) activeTeamIDs() []TeamID {
	var out []TeamID
	for _, t := range b.teams {
		if t.HasActiveMembers() {
			out = append(out, t.ID)
		}
	}
	return out
}

// teamOf returns the team whose roster contains c, or nil.
func (b *Battle) teamOf(c *Combatant) *Team {
	for _, t := range b.teams {
		if t.Has(c) {
			return t
		}
	}
	return nil
}

// findByID returns the combatant with id across all teams, or nil.
func (b *Battle) findByID(id string) *Combatant {
	for _, t := range b.teams {
		for _, m := range t.Members {
			if m.ID == id {
				return m
			}
		}
	}
	return nil
}

// isLeader reports whether c is first on its team's roster.
func (b *Battle) isLeader(c *Combatant) bool {
	t := b.teamOf(c)
	return t != nil && t.Leader() == c
}

// enemiesOf returns the teams hostile to t, in battle order.
func (b *Battle) enemiesOf(t *Team) []*Team {
	var out []*Team
	for _, other := range b.teams {
		if t.IsEnemy(other.ID) {
			out = append(out, other)
		}
	}
	return out
}
