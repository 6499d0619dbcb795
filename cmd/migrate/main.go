// Package main applies the report schema migrations to the configured database.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yasabihhagure/NBCBattleSimulator/internal/config"
	"github.com/Yasabihhagure/NBCBattleSimulator/internal/storage/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dir        string
		direction  string
		steps      int
	)
	cmd := &cobra.Command{
		Use:          "migrate [--direction up|down] [--steps n]",
		Short:        "Apply simulation report schema migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			res, err := postgres.Migrate(cfg.Database.DSN(), dir, direction, steps)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			out := cmd.OutOrStdout()
			elapsed := time.Since(start)
			if !res.Changed {
				fmt.Fprintf(out, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
				return nil
			}
			fmt.Fprintf(out, "migrated %s to version=%d dirty=%v [%s]\n", direction, res.Version, res.Dirty, elapsed)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
	f.StringVar(&dir, "dir", "migrations", "path to migration files")
	f.StringVar(&direction, "direction", "up", "migration direction: up or down")
	f.IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return cmd
}
