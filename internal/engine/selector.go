package engine

import (
	"fmt"

	"github.com/tatianab/noodle-king/internal/models"
)

// SpecialChance is the probability that the special pool replaces the
// action's own draw.
const SpecialChance = 0.15

var defaultPoses = map[models.Action]models.Pose{
	models.ActionWork:  models.PoseWork,
	models.ActionStudy: models.PoseStudy,
	models.ActionRelax: models.PoseRelax,
	models.ActionComm:  models.PoseHappy,
}

// SelectEvent draws an event for action and derives the avatar pose.
//
// The action pool is always drawn first; an independent roll then decides
// whether the special pool overrides it. Empty pools are authoring errors
// and panic.
func SelectEvent(action models.Action, pool, special []models.Event, rng Rand) (models.Event, models.Pose) {
	if len(pool) == 0 {
		panic(fmt.Sprintf("engine: empty event pool for %s", action))
	}
	ev := pool[pick(rng, len(pool))]

	if rng.Float64() < SpecialChance {
		if len(special) == 0 {
			panic("engine: empty special event pool")
		}
		ev = special[pick(rng, len(special))]
	}

	return ev, PoseFor(action, ev.Effects)
}

// PoseFor maps the mood delta of an event onto a pose. The harsher
// threshold is checked last so it wins.
func PoseFor(action models.Action, effects models.Effects) models.Pose {
	pose, ok := defaultPoses[action]
	if !ok {
		pose = models.PoseNormal
	}
	mood := effects.Delta(models.StatMood)
	if mood < -2 {
		pose = models.PosePanic
	}
	if mood < -8 {
		pose = models.PoseDead
	}
	return pose
}
