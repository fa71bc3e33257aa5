package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tatianab/noodle-king/internal/content"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/sim"
	"go.uber.org/zap"
)

var (
	simRuns    int
	simWorkers int
	simRecord  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play many random games and tally the endings",
	Long: `Plays --runs games with a random policy and prints how often each ending
came up. The same --seed always produces the same tally.

Example:
  game simulate --runs 10000 --seed 42`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simRuns, "runs", "n", 1000, "Number of games")
	simulateCmd.Flags().IntVarP(&simWorkers, "workers", "w", 8, "Games played in parallel")
	simulateCmd.Flags().BoolVar(&simRecord, "record", false, "Record reached endings in the unlock store")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if simRuns <= 0 {
		return fmt.Errorf("--runs must be positive")
	}
	var opts []engine.Option
	if simRecord {
		opts = append(opts, engine.WithUnlocks(a.Unlocks))
	}

	start := time.Now()
	report, err := sim.Batch(cmd.Context(), simRuns, cfg.Seed, simWorkers, a.Logger, opts...)
	if err != nil {
		return err
	}
	a.Logger.Info("Simulation finished",
		zap.Int("runs", report.Runs),
		zap.Uint64("seed", cfg.Seed),
		zap.Duration("took", time.Since(start)))

	out := cmd.OutOrStdout()
	t := content.Default()
	fmt.Fprintf(out, "%d runs, seed %d\n\n", report.Runs, cfg.Seed)
	for _, e := range report.Sorted() {
		n := report.Endings[e]
		fmt.Fprintf(out, "%-4s %-16s %6d  %5.1f%%\n", e, t.Ending(e).Title, n, 100*float64(n)/float64(report.Runs))
	}
	return nil
}
