package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/tatianab/noodle-king/internal/app"
	"github.com/tatianab/noodle-king/internal/config"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/models"
	"github.com/tatianab/noodle-king/internal/narrator"
	"github.com/tatianab/noodle-king/internal/sim"
)

// Plays one traced game with a random policy. With GEMINI_API_KEY set, every
// event is narrated as well.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	rng := engine.NewRand(cfg.Seed)
	eng := a.NewEngine(engine.WithRand(rng), engine.WithCueHandler(func(c engine.Cue) {
		fmt.Printf("  ♪ %s\n", c)
	}))
	defer eng.Close()

	policy := sim.RandomPolicy{Rand: rng, AcceptRate: 0.5}
	outfit := eng.Tables().Outfits[0].ID

	final, err := sim.Play(ctx, eng, policy, outfit, func(cmd string, s models.GameState) {
		fmt.Printf("--- W%d D%d > %s\n", s.Week, s.Day, cmd)
		res, ok := s.Phase.(models.EventResult)
		if !ok {
			return
		}
		fmt.Printf("%s: %s\n", res.Event.Title, strings.ReplaceAll(res.Text, "\n", " "))
		fmt.Printf("Effects: %v  Stats: %+v  Pose: %s\n", res.Event.Effects.Labels(), s.Stats, res.Pose)
		if a.Narrator == nil {
			return
		}
		text, err := a.Narrator.Narrate(ctx, narrator.Request{Event: res.Event, Stats: s.Stats, Week: s.Week, Day: s.Day})
		if err != nil {
			fmt.Printf("Narration failed: %v\n", err)
			return
		}
		fmt.Printf("Narrator: %s\n", text)
	})
	if err != nil {
		log.Fatalf("Game did not finish: %v", err)
	}

	info := eng.Tables().Ending(final.Ending)
	fmt.Printf("\nEnding %s: %s\n%s\n", final.Ending, info.Title, info.Description)
	fmt.Printf("Passed interviews: %d  Final stats: %+v\n", final.PassedInterviews, final.Stats)
	fmt.Println("\nHistory:")
	for _, line := range final.History {
		fmt.Println("  " + line)
	}
}
