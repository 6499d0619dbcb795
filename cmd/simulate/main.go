// Package main runs one party-versus-creatures matchup many times and prints
// the aggregated outcome.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/config"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/observability"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/storage/postgres"
)

type options struct {
	configPath string
	party      int
	creature   string
	scenario   string
	count      int
	trials     int
	karma      bool
	showLog    bool
	store      bool
	label      string
	seed       int64
	list       bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "simulate (--creature <name> | --scenario <file.yaml>) [flags]",
		Short: "Run one party-versus-creatures matchup many times",
		Long: `Builds a random party of persons as team A and a pack of one
creature template as team B, fights them the requested number of times with
fresh teams each battle, and prints win, survival and flee rates.

With --scenario the teams come from a YAML file instead: two to four teams of
creature templates and hand-built persons, cloned fresh for every battle.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !o.list && o.creature == "" && o.scenario == "" {
				return errors.New("--creature is required (use --list to see templates)")
			}
			if o.creature != "" && o.scenario != "" {
				return errors.New("--creature and --scenario are mutually exclusive")
			}
			return run(cmd.Context(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "configs/dev.yaml", "path to configuration file; empty = defaults and NBC_* env only")
	f.IntVarP(&o.party, "party", "p", 4, "number of persons on team A")
	f.StringVarP(&o.creature, "creature", "c", "", "creature template name for team B")
	f.IntVarP(&o.count, "count", "n", 1, "number of creatures on team B")
	f.StringVarP(&o.scenario, "scenario", "s", "", "scenario YAML file defining the teams (replaces --party/--creature/--count)")
	f.IntVarP(&o.trials, "trials", "t", 0, "number of battles (0 = simulation.trials from config)")
	f.BoolVar(&o.karma, "karma", false, "enable karma for persons (overrides config when set)")
	f.BoolVar(&o.showLog, "log", false, "print the narrative of the final battle")
	f.BoolVar(&o.store, "store", false, "persist the report to PostgreSQL")
	f.StringVar(&o.label, "label", "", "report label (default: derived from the matchup)")
	f.Int64Var(&o.seed, "seed", 0, "deterministic dice seed (0 = simulation.seed from config, else crypto)")
	f.BoolVar(&o.list, "list", false, "list creature templates and exit")
	return cmd
}

func run(parent context.Context, o options) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := o.seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	roller := newRoller(seed, logger)

	table, reg, err := loadContent(cfg.Content, roller, logger)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	if o.list {
		for _, name := range reg.Names() {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	}

	factory, title, err := buildFactory(o, table, reg, roller)
	if err != nil {
		return err
	}

	n := o.trials
	if n <= 0 {
		n = cfg.Simulation.Trials
	}

	sim := simulate.New(simulate.Options{
		Roller:     roller,
		Logger:     logger,
		Spawner:    reg,
		YieldEvery: cfg.Simulation.YieldEvery,
	})
	sum, err := sim.Run(ctx, n, factory, o.karma || cfg.Simulation.Karma)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, title, sum)
	if o.showLog {
		fmt.Fprintln(os.Stdout)
		for _, line := range sum.LastLog {
			fmt.Fprintln(os.Stdout, line)
		}
	}

	if o.store || cfg.Database.Enabled {
		label := o.label
		if label == "" {
			label = title
		}
		if err := storeReport(ctx, cfg.Database, postgres.NewReport(label, sum), logger); err != nil {
			return fmt.Errorf("storing report: %w", err)
		}
	}
	return nil
}

// newRoller returns a seeded roller when seed is non-zero and a crypto-backed
// one otherwise.
func newRoller(seed int64, logger *zap.Logger) *dice.Roller {
	if seed != 0 {
		logger.Info("using seeded dice", zap.Int64("seed", seed))
		return dice.NewLoggedRoller(dice.NewSeededSource(seed), logger)
	}
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func loadContent(cfg config.ContentConfig, r *dice.Roller, logger *zap.Logger) (*inventory.WeaponTable, *npc.Registry, error) {
	start := time.Now()
	table, err := inventory.LoadWeaponTable(cfg.WeaponsFile)
	if err != nil {
		return nil, nil, err
	}
	reg, err := npc.LoadRegistry(cfg.CreaturesDir, r)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("content loaded",
		zap.Int("creatures", len(reg.Names())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, reg, nil
}

// buildFactory returns the team factory and report title for either the
// scenario file or the party-versus-pack matchup.
func buildFactory(o options, table *inventory.WeaponTable, reg *npc.Registry, r *dice.Roller) (simulate.TeamFactory, string, error) {
	if o.scenario != "" {
		sc, err := simulate.LoadScenario(o.scenario)
		if err != nil {
			return nil, "", err
		}
		factory, err := sc.Factory(table, reg, r)
		if err != nil {
			return nil, "", err
		}
		return factory, sc.Title(), nil
	}
	m := simulate.Matchup{PartySize: o.party, Creature: o.creature, CreatureCount: o.count}
	factory, err := m.Factory(table, reg, r)
	if err != nil {
		return nil, "", err
	}
	return factory, fmt.Sprintf("%d 人間 vs %d %s", m.PartySize, m.CreatureCount, m.Creature), nil
}

func printSummary(w io.Writer, title string, sum simulate.Summary) {
	fmt.Fprintf(w, "%s: %d battles (karma=%v) in %s\n",
		title, sum.TotalBattles, sum.Karma, sum.Elapsed.Round(time.Millisecond))
	for _, id := range sum.TeamIDs() {
		fmt.Fprintf(w, "  team %s: wins %d (%.2f%%)  survival %.2f%%  fled %.2f%%\n",
			id, sum.WinCounts[id], sum.WinRates[id]*100,
			sum.SurvivalRates[id]*100, sum.FleeRates[id]*100)
	}
	fmt.Fprintf(w, "  timeouts %d  draws %d\n", sum.TimeoutCount, sum.DrawCount)
}

func storeReport(ctx context.Context, dbCfg config.DatabaseConfig, rep postgres.Report, logger *zap.Logger) error {
	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	saved, err := pool.Reports().Save(ctx, rep)
	if err != nil {
		return err
	}
	logger.Info("report stored", zap.String("id", saved.ID.String()), zap.String("label", saved.Label))
	fmt.Fprintf(os.Stdout, "report %s\n", saved.ID)
	return nil
}
