package content

import (
	"errors"
	"fmt"

	"github.com/tatianab/noodle-king/internal/models"
)

// Validate checks the authoring invariants the engine relies on. Every
// problem found is reported, not just the first.
func (t *Tables) Validate() error {
	var errs []error

	seen := make(map[models.Action]bool)
	for _, def := range t.Actions {
		if seen[def.Action] {
			errs = append(errs, fmt.Errorf("action %s defined twice", def.Action))
		}
		seen[def.Action] = true
		errs = append(errs, checkPool(string(def.Action), def.Events)...)
	}
	for _, a := range models.AllActions {
		if !seen[a] {
			errs = append(errs, fmt.Errorf("action %s has no event pool", a))
		}
	}
	errs = append(errs, checkPool("special", t.Special)...)

	if len(t.Interviews) != Weeks {
		errs = append(errs, fmt.Errorf("want %d interviews, got %d", Weeks, len(t.Interviews)))
	}
	for i, iv := range t.Interviews {
		if iv.Week != i+1 {
			errs = append(errs, fmt.Errorf("interview %d is for week %d", i+1, iv.Week))
		}
		errs = append(errs, checkStats("interview "+iv.Title+" pass", keys(iv.Pass))...)
		errs = append(errs, checkStats("interview "+iv.Title+" penalty", keys(iv.FailPenalty))...)
	}

	for _, e := range models.AllEndings {
		if _, ok := t.Endings[e]; !ok {
			errs = append(errs, fmt.Errorf("ending %s has no metadata", e))
		}
	}
	for e := range t.Endings {
		if !e.Valid() {
			errs = append(errs, fmt.Errorf("unknown ending %q", e))
		}
	}

	if t.InitialStats == nil {
		errs = append(errs, errors.New("initial_stats missing"))
	}
	if len(t.Outfits) == 0 {
		errs = append(errs, errors.New("no outfits"))
	}
	if t.ScamCall == nil {
		errs = append(errs, errors.New("scam_call script missing"))
	}
	if t.Log == nil {
		errs = append(errs, errors.New("log lines missing"))
	}

	return errors.Join(errs...)
}

func checkPool(name string, events []models.Event) []error {
	if len(events) == 0 {
		return []error{fmt.Errorf("pool %s is empty", name)}
	}
	var errs []error
	for _, ev := range events {
		if ev.ID == "" || ev.Title == "" {
			errs = append(errs, fmt.Errorf("pool %s: event without id or title", name))
		}
		errs = append(errs, checkStats("event "+ev.ID, keys(ev.Effects))...)
		errs = append(errs, checkStats("event "+ev.ID+" condition", keys(ev.Condition))...)
	}
	return errs
}

func checkStats(where string, stats []models.Stat) []error {
	var errs []error
	for _, st := range stats {
		if _, err := models.ParseStat(string(st)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	return errs
}

func keys[M ~map[models.Stat]int](m M) []models.Stat {
	out := make([]models.Stat, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
