package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tatianab/noodle-king/internal/app"
	"github.com/tatianab/noodle-king/internal/config"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/tui"
	"go.uber.org/zap"
)

var (
	// Global flags
	saveDir string
	seed    uint64
	verbose bool

	cfg *config.Config
	a   *app.App
)

var rootCmd = &cobra.Command{
	Use:   "game",
	Short: "Six weeks, six interviews, one noodle shop",
	Long: `A job-hunt life simulator. Pick a daily action for six weeks, survive a
scam call, pass the weekly interviews and collect the endings.

Run without arguments to play.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("save-dir") {
			cfg.SaveDir = saveDir
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		a, err = app.New(cmd.Context(), cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a != nil {
			_ = a.Close()
		}
	},
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	bell := tui.NewBell(os.Stderr)
	eng := a.NewEngine(engine.WithCueHandler(bell.Play))
	defer eng.Close()

	if err := tui.Run(cmd.Context(), eng, a.Narrator, bell, a.Logger); err != nil {
		a.Logger.Error("TUI exited", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&saveDir, "save-dir", "", "Directory for unlocks and logs (overrides NOODLE_SAVE_DIR)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random seed, 0 for time based (overrides NOODLE_SEED)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(playCmd, simulateCmd, endingsCmd, resetUnlocksCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
