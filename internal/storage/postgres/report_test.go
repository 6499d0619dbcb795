package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/combat"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/storage/postgres"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/testutil"
)

func sampleSummary() simulate.Summary {
	return simulate.Summary{
		TotalBattles:  10,
		Karma:         true,
		WinCounts:     map[combat.TeamID]int{combat.TeamA: 7, combat.TeamB: 2},
		WinRates:      map[combat.TeamID]float64{combat.TeamA: 0.7, combat.TeamB: 0.2},
		SurvivalRates: map[combat.TeamID]float64{combat.TeamA: 0.55, combat.TeamB: 0.1},
		FleeRates:     map[combat.TeamID]float64{combat.TeamA: 0, combat.TeamB: 0.3},
		TimeoutCount:  1,
		LastLog:       []string{"[T0] Battle begins!", "[T1] 人間-1 attacks 鬼"},
	}
}

func TestNewReport_CopiesSummary(t *testing.T) {
	sum := sampleSummary()
	rep := postgres.NewReport("4 vs 鬼", sum)

	assert.NotEqual(t, uuid.Nil, rep.ID)
	assert.Equal(t, "4 vs 鬼", rep.Label)
	assert.Equal(t, 10, rep.Trials)
	assert.True(t, rep.Karma)
	assert.Equal(t, map[string]int{"A": 7, "B": 2}, rep.WinCounts)
	assert.Equal(t, 0.3, rep.FleeRates["B"])
	assert.Equal(t, 1, rep.Timeouts)
	assert.Equal(t, 0, rep.Draws)
	assert.Equal(t, sum.LastLog, rep.LastLog)

	sum.LastLog[0] = "mutated"
	assert.Equal(t, "[T0] Battle begins!", rep.LastLog[0])
}

// Property: NewReport always produces a distinct id.
func TestPropertyNewReport_UniqueIDs(t *testing.T) {
	seen := map[uuid.UUID]bool{}
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.String().Draw(t, "label")
		rep := postgres.NewReport(label, simulate.Summary{TotalBattles: 1})
		if seen[rep.ID] {
			t.Fatalf("duplicate id %s", rep.ID)
		}
		seen[rep.ID] = true
		if rep.Label != label {
			t.Fatalf("label = %q, want %q", rep.Label, label)
		}
	})
}

func TestReportRepository_SaveAndGet(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	ctx := context.Background()

	saved, err := repo.Save(ctx, postgres.NewReport("party of 4", sampleSummary()))
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "party of 4", got.Label)
	assert.Equal(t, 10, got.Trials)
	assert.True(t, got.Karma)
	assert.Equal(t, map[string]int{"A": 7, "B": 2}, got.WinCounts)
	assert.InDelta(t, 0.55, got.SurvivalRates["A"], 1e-9)
	assert.Equal(t, 1, got.Timeouts)
	assert.Equal(t, []string{"[T0] Battle begins!", "[T1] 人間-1 attacks 鬼"}, got.LastLog)
}

func TestReportRepository_ZeroIDAssigned(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))

	saved, err := repo.Save(context.Background(), postgres.Report{Trials: 1})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, []string{}, saved.LastLog)
}

func TestReportRepository_DuplicateID(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	ctx := context.Background()

	rep := postgres.NewReport("dup", sampleSummary())
	_, err := repo.Save(ctx, rep)
	require.NoError(t, err)
	_, err = repo.Save(ctx, rep)
	assert.ErrorIs(t, err, postgres.ErrReportExists)
}

func TestReportRepository_GetMissing(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrReportNotFound)
}

func TestReportRepository_ListRecent(t *testing.T) {
	repo := postgres.NewReportRepository(testutil.NewPool(t))
	ctx := context.Background()

	empty, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	for _, label := range []string{"first", "second", "third"} {
		_, err := repo.Save(ctx, postgres.NewReport(label, sampleSummary()))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].Label)
	assert.Equal(t, "second", got[1].Label)

	_, err = repo.ListRecent(ctx, 0)
	assert.ErrorIs(t, err, postgres.ErrInvalidLimit)
}

func TestReportRepository_RejectsZeroTrials(t *testing.T) {
	repo := postgres.NewReportRepository(nil)
	_, err := repo.Save(context.Background(), postgres.Report{})
	assert.Error(t, err)
}

func TestMigrate_UpThenDown(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	dir := testutil.MigrationsDir(t)

	up, err := postgres.Migrate(pc.DSN(), dir, "up", 0)
	require.NoError(t, err)
	assert.True(t, up.Changed)
	assert.Equal(t, uint(1), up.Version)
	assert.False(t, up.Dirty)

	again, err := postgres.Migrate(pc.DSN(), dir, "up", 0)
	require.NoError(t, err)
	assert.False(t, again.Changed)

	repo := pc.Pool.Reports()
	_, err = repo.Save(context.Background(), postgres.NewReport("migrated", sampleSummary()))
	require.NoError(t, err)

	_, err = postgres.Migrate(pc.DSN(), dir, "down", 1)
	require.NoError(t, err)
}

func TestMigrate_InvalidArguments(t *testing.T) {
	_, err := postgres.Migrate("postgres://x", "migrations", "sideways", 0)
	assert.Error(t, err)
	_, err = postgres.Migrate("postgres://x", "migrations", "up", -1)
	assert.Error(t, err)
}
