// Package sim plays games without a human, for balance checks and smoke
// tests.
package sim

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxSteps bounds a run; a full calendar needs well under a hundred commands.
const maxSteps = 1000

// Policy makes the player's choices.
type Policy interface {
	ChooseAction(s models.GameState) models.Action
	AcceptCall(s models.GameState) bool
}

// RandomPolicy picks actions uniformly and answers the call with the given
// acceptance rate.
type RandomPolicy struct {
	Rand       engine.Rand
	AcceptRate float64
}

func (p RandomPolicy) ChooseAction(models.GameState) models.Action {
	i := int(p.Rand.Float64() * float64(len(models.AllActions)))
	return models.AllActions[min(i, len(models.AllActions)-1)]
}

func (p RandomPolicy) AcceptCall(models.GameState) bool {
	return p.Rand.Float64() < p.AcceptRate
}

// Step is called after every applied command with the resulting state.
type Step func(cmd string, s models.GameState)

// Play drives eng from the intro to an ending. Interview tasks fire
// immediately instead of waiting out their delay.
func Play(ctx context.Context, eng *engine.Engine, policy Policy, outfit string, step Step) (models.GameState, error) {
	if step == nil {
		step = func(string, models.GameState) {}
	}
	for i := 0; i < maxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return eng.State(), err
		}

		s := eng.State()
		var cmd string
		var applied bool
		switch p := s.Phase.(type) {
		case models.Intro:
			cmd, applied = "start", eng.Start(ctx)
		case models.CharacterSelect:
			cmd, applied = "outfit "+outfit, eng.ChooseOutfit(ctx, outfit)
		case models.WeeklyLoop:
			action := policy.ChooseAction(s)
			cmd, applied = "action "+string(action), eng.ResolveAction(ctx, action)
		case models.EventResult:
			cmd, applied = "ack", eng.AcknowledgeEvent(ctx)
		case models.ScamCall:
			if p.Stage == models.CallRinging {
				cmd, applied = "answer", eng.AnswerCall(ctx)
			} else {
				accept := policy.AcceptCall(s)
				cmd, applied = fmt.Sprintf("call accept=%t", accept), eng.ResolveScamCall(ctx, accept)
			}
		case models.Interview:
			var task *engine.Deferred
			task, applied = eng.ResolveInterview(ctx)
			cmd = "interview"
			if applied && task != nil {
				step(cmd, eng.State())
				cmd, applied = "interview done", task.Fire(ctx)
			}
		case models.Ending:
			return s, nil
		}
		if !applied {
			return s, fmt.Errorf("command %q not applied in phase %s", cmd, s.Phase.Kind())
		}
		step(cmd, eng.State())
	}
	return eng.State(), fmt.Errorf("run did not end after %d steps", maxSteps)
}

// Report tallies the endings of a batch.
type Report struct {
	Runs    int
	Endings map[models.EndingType]int
}

// Sorted returns the endings in canonical order with their counts.
func (r Report) Sorted() []models.EndingType {
	keys := slices.Collect(maps.Keys(r.Endings))
	slices.SortFunc(keys, func(a, b models.EndingType) int {
		return slices.Index(models.AllEndings, a) - slices.Index(models.AllEndings, b)
	})
	return keys
}

// Batch plays runs games in parallel. Game i is seeded with seed+i so a batch
// is reproducible. opts are applied to every engine after the seeded source.
func Batch(ctx context.Context, runs int, seed uint64, workers int, logger *zap.Logger, opts ...engine.Option) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := Report{Runs: runs, Endings: make(map[models.EndingType]int)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			rng := engine.NewRand(seed + uint64(i) + 1)
			eng := engine.New(append([]engine.Option{engine.WithRand(rng), engine.WithLogger(logger)}, opts...)...)
			defer eng.Close()

			policy := RandomPolicy{Rand: rng, AcceptRate: 0.5}
			final, err := Play(ctx, eng, policy, eng.Tables().Outfits[0].ID, nil)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			mu.Lock()
			report.Endings[final.Ending]++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}
