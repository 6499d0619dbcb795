// Package main runs a CSV list of matchups and writes one result row per
// matchup.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/batch"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/config"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/dice"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/inventory"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/npc"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/game/simulate"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/observability"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inPath     string
		outPath    string
		seed       int64
	)
	cmd := &cobra.Command{
		Use:   "batch --in <file.csv> [--out <file.csv>]",
		Short: "Run every matchup listed in a CSV file",
		Long: `Reads rows of trials,party_size,creature,creature_count (lines starting
with # are comments), simulates each row with karma off, and writes team A win
and survival rates and team B win and flee rates per row.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, inPath, outPath, seed)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file; empty = defaults and NBC_* env only")
	f.StringVarP(&inPath, "in", "i", "", "input CSV: trials,party_size,creature,creature_count")
	f.StringVarP(&outPath, "out", "o", "", "output CSV path (default stdout)")
	f.Int64Var(&seed, "seed", 0, "deterministic dice seed (0 = simulation.seed from config, else crypto)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func run(parent context.Context, configPath, inPath, outPath string, seed int64) error {
	start := time.Now()

	cfg, err := config.Load(configPath)
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

	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	var src dice.Source
	if seed != 0 {
		src = dice.NewSeededSource(seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	table, err := inventory.LoadWeaponTable(cfg.Content.WeaponsFile)
	if err != nil {
		return fmt.Errorf("loading weapon table: %w", err)
	}
	reg, err := npc.LoadRegistry(cfg.Content.CreaturesDir, roller)
	if err != nil {
		return fmt.Errorf("loading creature templates: %w", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	rows, err := batch.ParseRows(in, logger)
	in.Close()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	logger.Info("batch loaded", zap.String("in", inPath), zap.Int("rows", len(rows)))

	sim := simulate.New(simulate.Options{
		Roller:     roller,
		Logger:     logger,
		Spawner:    reg,
		YieldEvery: cfg.Simulation.YieldEvery,
	})
	results, err := batch.NewRunner(sim, table, reg, roller, logger).Run(ctx, rows)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := batch.WriteResults(out, results); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	logger.Info("batch complete",
		zap.Int("rows", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
