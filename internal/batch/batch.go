// Package batch runs a CSV list of matchups through the simulator and writes
// one result row per matchup.
package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
)

// ErrMalformedRow marks an input row that cannot be read as a matchup.
// Such rows are skipped with a warning.
var ErrMalformedRow = errors.New("batch: malformed row")

// Header is the comment line that opens every result file.
var Header = []string{
	"# 試行回数",
	"チームAの人数",
	"チームBのモンスター名",
	"チームBのモンスター数",
	"チームAの勝率",
	"チームAの生存率",
	"チームBの勝率",
	"チームBの敗走/逃走率",
}

// Row is one requested matchup.
type Row struct {
	Trials int
	simulate.Matchup
}

// Result is the outcome of one Row.
type Result struct {
	Row
	WinRateA      float64
	SurvivalRateA float64
	WinRateB      float64
	FleeRateB     float64
}

// ParseRows reads trials,party_size,creature,creature_count rows. Lines
// starting with '#' and blank lines are ignored; malformed rows are logged
// and skipped.
//
// Postcondition: Returns every well-formed row in input order, or an error
// if the input itself cannot be read.
func ParseRows(r io.Reader, logger *zap.Logger) ([]Row, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("batch: reading rows: %w", err)
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRow(rec)
		if err != nil {
			logger.Warn("batch: skipping row", zap.Int("line", line), zap.Strings("fields", rec), zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
}

func parseRow(rec []string) (Row, error) {
	if len(rec) < 4 {
		return Row{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedRow, len(rec))
	}
	ints := make([]int, 0, 3)
	for _, i := range []int{0, 1, 3} {
		n, err := strconv.Atoi(strings.TrimSpace(rec[i]))
		if err != nil {
			return Row{}, fmt.Errorf("%w: field %d: %v", ErrMalformedRow, i+1, err)
		}
		ints = append(ints, n)
	}
	row := Row{
		Trials: ints[0],
		Matchup: simulate.Matchup{
			PartySize:     ints[1],
			Creature:      strings.TrimSpace(rec[2]),
			CreatureCount: ints[2],
		},
	}
	if row.Trials < 1 {
		return Row{}, fmt.Errorf("%w: trials must be >= 1", ErrMalformedRow)
	}
	if err := row.Validate(); err != nil {
		return Row{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return row, nil
}

// Runner executes rows against the content catalog. Karma is always off
// for batch runs.
type Runner struct {
	sim      *simulate.Simulator
	table    *inventory.WeaponTable
	registry *npc.Registry
	roller   *dice.Roller
	logger   *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: sim, table, registry and r must be non-nil.
func NewRunner(sim *simulate.Simulator, table *inventory.WeaponTable, registry *npc.Registry, r *dice.Roller, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{sim: sim, table: table, registry: registry, roller: r, logger: logger}
}

// Run simulates every row in order. An unknown creature fails the whole
// batch.
//
// Postcondition: len(results) == len(rows) on success.
func (b *Runner) Run(ctx context.Context, rows []Row) ([]Result, error) {
	results := make([]Result, 0, len(rows))
	for i, row := range rows {
		factory, err := row.Factory(b.table, b.registry, b.roller)
		if err != nil {
			return nil, fmt.Errorf("batch: row %d: %w", i+1, err)
		}
		sum, err := b.sim.Run(ctx, row.Trials, factory, false)
		if err != nil {
			return nil, fmt.Errorf("batch: row %d: %w", i+1, err)
		}
		results = append(results, Result{
			Row:           row,
			WinRateA:      sum.WinRates[combat.TeamA],
			SurvivalRateA: sum.SurvivalRates[combat.TeamA],
			WinRateB:      sum.WinRates[combat.TeamB],
			FleeRateB:     sum.FleeRates[combat.TeamB],
		})
		b.logger.Info("batch: row done",
			zap.Int("row", i+1),
			zap.String("creature", row.Creature),
			zap.Float64("win_rate_a", sum.WinRates[combat.TeamA]),
		)
	}
	return results, nil
}

// WriteResults writes the header line and one row per result with rates
// to four decimal places.
func WriteResults(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("batch: writing header: %w", err)
	}
	for _, r := range results {
		rec := []string{
			strconv.Itoa(r.Trials),
			strconv.Itoa(r.PartySize),
			r.Creature,
			strconv.Itoa(r.CreatureCount),
			formatRate(r.WinRateA),
			formatRate(r.SurvivalRateA),
			formatRate(r.WinRateB),
			formatRate(r.FleeRateB),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("batch: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
