package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tatianab/noodle-king/internal/content"
	"github.com/tatianab/noodle-king/internal/models"
)

var endingsCmd = &cobra.Command{
	Use:   "endings",
	Short: "List the endings unlocked so far",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := content.Default()
		out := cmd.OutOrStdout()
		unlocked := a.Unlocks.List()
		fmt.Fprintf(out, "%d/%d endings unlocked\n\n", len(unlocked), len(models.AllEndings))
		for _, e := range models.AllEndings {
			info := t.Ending(e)
			if a.Unlocks.Has(e) {
				fmt.Fprintf(out, "  [x] %-4s %s\n", e, info.Title)
			} else {
				fmt.Fprintf(out, "  [ ] %-4s %s\n", e, info.Hint)
			}
		}
		return nil
	},
}

var resetUnlocksCmd = &cobra.Command{
	Use:   "reset-unlocks",
	Short: "Forget every unlocked ending",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := a.Unlocks.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset unlocks: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Unlocked endings cleared.")
		return nil
	},
}
