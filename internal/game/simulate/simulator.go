// Package simulate runs many independent battles and aggregates their outcomes.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
)

// DefaultYieldEvery is the number of trials between cooperative yields.
const DefaultYieldEvery = 100

var (
	// ErrInvalidTrialCount is returned when Run is asked for fewer than one trial.
	ErrInvalidTrialCount = errors.New("simulate: trial count must be >= 1")
	// ErrInvalidTeams is returned when a factory produces an unusable team set.
	ErrInvalidTeams = errors.New("simulate: invalid team set")
)

// TeamFactory returns a fresh set of teams for one trial. Teams and their
// members must never be reused across calls.
type TeamFactory func() ([]*combat.Team, error)

// Options configures a Simulator.
type Options struct {
	// Roller supplies all randomness. Required.
	Roller *dice.Roller
	// Logger receives batch-level diagnostics; nil disables logging.
	Logger *zap.Logger
	// Spawner resolves summon effects inside battles.
	Spawner combat.Spawner
	// YieldEvery overrides DefaultYieldEvery when > 0.
	YieldEvery int
	// MaxTurns overrides the battle turn cap when > 0.
	MaxTurns int
}

// Summary aggregates the outcomes of a batch of trials.
type Summary struct {
	TotalBattles int
	Karma        bool
	WinCounts    map[combat.TeamID]int
	WinRates     map[combat.TeamID]float64
	// SurvivalRates and FleeRates are totals over all trials divided by the
	// total initial member count.
	SurvivalRates map[combat.TeamID]float64
	FleeRates     map[combat.TeamID]float64
	TimeoutCount  int
	DrawCount     int
	// LastLog is the narrative of the final trial only.
	LastLog []string
	Elapsed time.Duration
}

// TeamIDs returns every team that appeared in the batch, sorted.
func (s Summary) TeamIDs() []combat.TeamID {
	ids := make([]combat.TeamID, 0, len(s.WinRates))
	for id := range s.WinRates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// teamTotals accumulates one team's accounting across trials.
type teamTotals struct {
	wins      int
	survivors int
	initial   int
	fled      int
}

// Simulator runs battles sequentially; one battle finishes before the next
// begins. A Simulator may be reused for several batches but not concurrently.
type Simulator struct {
	roller     *dice.Roller
	logger     *zap.Logger
	spawner    combat.Spawner
	yieldEvery int
	maxTurns   int
}

// New creates a Simulator.
//
// Precondition: opts.Roller must be non-nil.
func New(opts Options) *Simulator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	yieldEvery := opts.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = DefaultYieldEvery
	}
	return &Simulator{
		roller:     opts.Roller,
		logger:     logger,
		spawner:    opts.Spawner,
		yieldEvery: yieldEvery,
		maxTurns:   opts.MaxTurns,
	}
}

// Run executes trials battles, each over a fresh team set from factory, and
// folds their results into a Summary. Between every YieldEvery trials it
// yields the processor and honours ctx cancellation.
//
// Precondition: trials >= 1; factory must be non-nil.
// Postcondition: on success, sum(WinCounts) + TimeoutCount + DrawCount == trials.
func (s *Simulator) Run(ctx context.Context, trials int, factory TeamFactory, karma bool) (Summary, error) {
	if trials < 1 {
		return Summary{}, fmt.Errorf("%w: got %d", ErrInvalidTrialCount, trials)
	}
	start := time.Now()
	s.logger.Info("simulation started", zap.Int("trials", trials), zap.Bool("karma", karma))

	totals := make(map[combat.TeamID]*teamTotals)
	sum := Summary{TotalBattles: trials, Karma: karma}

	for i := 0; i < trials; i++ {
		if i > 0 && i%s.yieldEvery == 0 {
			runtime.Gosched()
			if err := ctx.Err(); err != nil {
				return Summary{}, fmt.Errorf("simulate: cancelled after %d trials: %w", i, err)
			}
		}

		teams, err := factory()
		if err != nil {
			return Summary{}, fmt.Errorf("simulate: trial %d: building teams: %w", i+1, err)
		}
		if err := validateTeams(teams); err != nil {
			return Summary{}, fmt.Errorf("simulate: trial %d: %w", i+1, err)
		}

		battle := combat.NewBattle(teams, combat.Options{
			Karma:    karma,
			Roller:   s.roller,
			Logger:   s.logger,
			Spawner:  s.spawner,
			MaxTurns: s.maxTurns,
		})
		res, err := battle.Run(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("simulate: trial %d: %w", i+1, err)
		}

		s.fold(totals, &sum, res)
		if i == trials-1 {
			sum.LastLog = res.Log
		}
	}

	sum.WinCounts = make(map[combat.TeamID]int, len(totals))
	sum.WinRates = make(map[combat.TeamID]float64, len(totals))
	sum.SurvivalRates = make(map[combat.TeamID]float64, len(totals))
	sum.FleeRates = make(map[combat.TeamID]float64, len(totals))
	for id, t := range totals {
		initial := t.initial
		if initial == 0 {
			initial = 1
		}
		sum.WinCounts[id] = t.wins
		sum.WinRates[id] = float64(t.wins) / float64(trials)
		sum.SurvivalRates[id] = float64(t.survivors) / float64(initial)
		sum.FleeRates[id] = float64(t.fled) / float64(initial)
	}
	sum.Elapsed = time.Since(start)

	s.logger.Info("simulation finished",
		zap.Int("trials", trials),
		zap.Int("timeouts", sum.TimeoutCount),
		zap.Int("draws", sum.DrawCount),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}

// fold adds one battle result to the running totals.
func (s *Simulator) fold(totals map[combat.TeamID]*teamTotals, sum *Summary, res combat.Result) {
	for id, st := range res.TeamStats {
		t, ok := totals[id]
		if !ok {
			t = &teamTotals{}
			totals[id] = t
		}
		t.survivors += st.Final
		t.initial += st.Initial
		t.fled += st.Fled
	}
	switch {
	case res.Timeout:
		sum.TimeoutCount++
	case len(res.Winners) == 0:
		sum.DrawCount++
	default:
		for _, id := range res.Winners {
			totals[id].wins++
		}
	}
}

// validateTeams checks the team set a factory produced: two to four teams
// with distinct, known ids.
func validateTeams(teams []*combat.Team) error {
	if len(teams) < 2 || len(teams) > 4 {
		return fmt.Errorf("%w: need 2-4 teams, got %d", ErrInvalidTeams, len(teams))
	}
	seen := make(map[combat.TeamID]bool, len(teams))
	for _, t := range teams {
		if t == nil || !t.ID.Valid() {
			return fmt.Errorf("%w: unknown team id", ErrInvalidTeams)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate team id %s", ErrInvalidTeams, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
