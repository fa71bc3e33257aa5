package engine

import (
	"github.com/tatianab/noodle-king/internal/content"
	"github.com/tatianab/noodle-king/internal/models"
)

// LotteryChance is the probability that an unremarkable finish becomes the
// lottery ending.
const LotteryChance = 0.3

// CatastrophicEnding checks the two conditions that end a run in any week.
func CatastrophicEnding(s models.Stats) (models.EndingType, bool) {
	switch {
	case s.Mood <= 0:
		return models.EndingBE1, true
	case s.Family <= -20:
		return models.EndingBE2, true
	}
	return "", false
}

// CheckEnding resolves the deterministic ending. Before the calendar is
// complete only catastrophic endings fire; ok is false while the run goes on.
func CheckEnding(s models.Stats, passed, week int) (models.EndingType, bool) {
	if e, ok := CatastrophicEnding(s); ok {
		return e, true
	}
	if week <= content.Weeks {
		return "", false
	}

	switch {
	case s.Family >= 80:
		return models.EndingGE3, true
	case s.Skill >= 60 && s.Comm >= 55 && s.Mood >= 20 && passed >= 5:
		return models.EndingGE1, true
	case s.Mood >= 70 && s.Skill >= 30 && s.Comm >= 30:
		return models.EndingGE4, true
	case s.Skill < 20 && s.Comm < 20 && passed == 0:
		return models.EndingBE3, true
	}
	return models.EndingNE, true
}

// FinalizeEnding is CheckEnding plus the lottery. The roll is only consumed
// when the deterministic result is NE or nothing, so calling it twice may
// give different answers.
func FinalizeEnding(s models.Stats, passed, week int, rng Rand) models.EndingType {
	e, ok := CheckEnding(s, passed, week)
	if ok && e != models.EndingNE {
		return e
	}
	if rng.Float64() < LotteryChance {
		return models.EndingGE2
	}
	return models.EndingNE
}
