package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tatianab/noodle-king/internal/models"
)

func TestCheckEnding(t *testing.T) {
	tests := []struct {
		name   string
		stats  models.Stats
		passed int
		week   int
		want   models.EndingType
		ok     bool
	}{
		{"mood collapse beats good stats", models.Stats{Skill: 90, Comm: 90, Mood: 0, Family: 90}, 6, 7, models.EndingBE1, true},
		{"mood collapse mid run", models.Stats{Mood: 0, Family: 50}, 0, 2, models.EndingBE1, true},
		{"family breakdown", models.Stats{Mood: 10, Family: -20}, 0, 3, models.EndingBE2, true},
		{"mood checked before family", models.Stats{Mood: 0, Family: -30}, 0, 3, models.EndingBE1, true},
		{"run continues", models.Stats{Skill: 90, Comm: 90, Mood: 80, Family: 90}, 6, 6, "", false},
		{"run continues week 1", models.InitialStats, 0, 1, "", false},
		{"family rule before offer", models.Stats{Family: 90, Skill: 70, Comm: 60, Mood: 30}, 6, 7, models.EndingGE3, true},
		{"offer", models.Stats{Family: 50, Skill: 60, Comm: 55, Mood: 20}, 5, 7, models.EndingGE1, true},
		{"offer needs five interviews", models.Stats{Family: 50, Skill: 60, Comm: 55, Mood: 20}, 4, 7, models.EndingNE, true},
		{"self consistent life", models.Stats{Family: 50, Skill: 30, Comm: 30, Mood: 70}, 0, 7, models.EndingGE4, true},
		{"loan", models.Stats{Family: 50, Skill: 19, Comm: 19, Mood: 50}, 0, 7, models.EndingBE3, true},
		{"loan needs zero interviews", models.Stats{Family: 50, Skill: 19, Comm: 19, Mood: 50}, 1, 7, models.EndingNE, true},
		{"neutral", models.Stats{Family: 50, Skill: 40, Comm: 25, Mood: 50}, 2, 7, models.EndingNE, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CheckEnding(tt.stats, tt.passed, tt.week)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinalizeEndingLottery(t *testing.T) {
	neutral := models.Stats{Family: 50, Skill: 40, Comm: 25, Mood: 50}
	offer := models.Stats{Family: 50, Skill: 70, Comm: 60, Mood: 30}

	assert.Equal(t, models.EndingGE2, FinalizeEnding(neutral, 2, 7, constRand(0.29)))
	assert.Equal(t, models.EndingNE, FinalizeEnding(neutral, 2, 7, constRand(0.3)))

	for _, roll := range []float64{0, 0.1, 0.29, 0.5, 0.99} {
		rng := constRand(roll)
		assert.Equal(t, models.EndingGE1, FinalizeEnding(offer, 6, 7, rng), "roll %v", roll)
		assert.Zero(t, rng.calls, "lottery must not roll over a determined ending")
	}

	assert.Equal(t, models.EndingBE1, FinalizeEnding(models.Stats{Mood: 0}, 0, 7, constRand(0)))
}
