package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
)

// ErrReportNotFound is returned when a report lookup yields no results.
var ErrReportNotFound = errors.New("report not found")

// ErrReportExists is returned when saving a report whose id is already stored.
var ErrReportExists = errors.New("report already exists")

// ErrInvalidLimit is returned when ListRecent is asked for fewer than one row.
var ErrInvalidLimit = errors.New("limit must be >= 1")

// Report is the stored form of one simulation batch: its aggregates plus the
// narrative of the final trial.
type Report struct {
	ID            uuid.UUID
	Label         string
	Trials        int
	Karma         bool
	WinCounts     map[string]int
	WinRates      map[string]float64
	SurvivalRates map[string]float64
	FleeRates     map[string]float64
	Timeouts      int
	Draws         int
	LastLog       []string
	CreatedAt     time.Time
}

// NewReport converts a simulation summary into a Report with a fresh id.
//
// Postcondition: every per-team map in s is copied under its team id string.
func NewReport(label string, s simulate.Summary) Report {
	r := Report{
		ID:            uuid.New(),
		Label:         label,
		Trials:        s.TotalBattles,
		Karma:         s.Karma,
		WinCounts:     make(map[string]int, len(s.WinCounts)),
		WinRates:      make(map[string]float64, len(s.WinRates)),
		SurvivalRates: make(map[string]float64, len(s.SurvivalRates)),
		FleeRates:     make(map[string]float64, len(s.FleeRates)),
		Timeouts:      s.TimeoutCount,
		Draws:         s.DrawCount,
		LastLog:       append([]string(nil), s.LastLog...),
	}
	for id, n := range s.WinCounts {
		r.WinCounts[string(id)] = n
	}
	for id, v := range s.WinRates {
		r.WinRates[string(id)] = v
	}
	for id, v := range s.SurvivalRates {
		r.SurvivalRates[string(id)] = v
	}
	for id, v := range s.FleeRates {
		r.FleeRates[string(id)] = v
	}
	return r
}

// ReportRepository provides simulation report persistence operations.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, label, trials, karma, win_counts, win_rates,
	survival_rates, flee_rates, timeouts, draws, last_log, created_at`

// Save inserts rep. A zero ID is replaced with a new random one.
//
// Precondition: rep.Trials must be >= 1.
// Postcondition: Returns the stored Report with ID and CreatedAt set,
// or ErrReportExists if the id is already taken.
func (r *ReportRepository) Save(ctx context.Context, rep Report) (Report, error) {
	if rep.Trials < 1 {
		return Report{}, fmt.Errorf("saving report: trials must be >= 1, got %d", rep.Trials)
	}
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	if rep.LastLog == nil {
		rep.LastLog = []string{}
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO simulation_reports
		   (id, label, trials, karma, win_counts, win_rates,
		    survival_rates, flee_rates, timeouts, draws, last_log)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		rep.ID, rep.Label, rep.Trials, rep.Karma,
		nonNilInts(rep.WinCounts), nonNilFloats(rep.WinRates),
		nonNilFloats(rep.SurvivalRates), nonNilFloats(rep.FleeRates),
		rep.Timeouts, rep.Draws, rep.LastLog,
	).Scan(&rep.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Report{}, ErrReportExists
		}
		return Report{}, fmt.Errorf("inserting report: %w", err)
	}
	return rep, nil
}

// Get retrieves a report by id.
//
// Postcondition: Returns the Report or ErrReportNotFound.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM simulation_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, ErrReportNotFound
		}
		return Report{}, fmt.Errorf("querying report: %w", err)
	}
	return rep, nil
}

// ListRecent returns up to limit reports, newest first.
//
// Precondition: limit must be >= 1.
// Postcondition: Returns an empty, non-nil slice when no reports are stored.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]Report, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+reportColumns+` FROM simulation_reports
		 ORDER BY created_at DESC, id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return out, nil
}

func scanReport(row pgx.Row) (Report, error) {
	var rep Report
	err := row.Scan(
		&rep.ID, &rep.Label, &rep.Trials, &rep.Karma,
		&rep.WinCounts, &rep.WinRates, &rep.SurvivalRates, &rep.FleeRates,
		&rep.Timeouts, &rep.Draws, &rep.LastLog, &rep.CreatedAt,
	)
	return rep, err
}

func nonNilInts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}

func nonNilFloats(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
