package models

import (
	"fmt"
	"strings"
)

// Stat names a single dimension of Stats.
type Stat string

const (
	StatSkill  Stat = "skill"
	StatComm   Stat = "comm"
	StatMood   Stat = "mood"
	StatFamily Stat = "family"
	StatMoney  Stat = "money"
)

// AllStats lists the stats in display order.
var AllStats = []Stat{StatSkill, StatComm, StatMood, StatFamily, StatMoney}

// ParseStat validates a stat name coming from content.
func ParseStat(s string) (Stat, error) {
	for _, st := range AllStats {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stat %q", s)
}

// Stats is the player's five-dimensional resource vector.
type Stats struct {
	Skill  int `yaml:"skill" json:"skill"`
	Comm   int `yaml:"comm" json:"comm"`
	Mood   int `yaml:"mood" json:"mood"`
	Family int `yaml:"family" json:"family"`
	Money  int `yaml:"money" json:"money"`
}

// Get returns the value of a single stat.
func (s Stats) Get(st Stat) int {
	switch st {
	case StatSkill:
		return s.Skill
	case StatComm:
		return s.Comm
	case StatMood:
		return s.Mood
	case StatFamily:
		return s.Family
	case StatMoney:
		return s.Money
	}
	return 0
}

func (s *Stats) set(st Stat, v int) {
	switch st {
	case StatSkill:
		s.Skill = v
	case StatComm:
		s.Comm = v
	case StatMood:
		s.Mood = v
	case StatFamily:
		s.Family = v
	case StatMoney:
		s.Money = v
	}
}

// Effects is a sparse stat delta. Absent stats are left untouched.
type Effects map[Stat]int

// Delta returns the delta for st, zero when absent.
func (e Effects) Delta(st Stat) int {
	return e[st]
}

// Labels renders the non-zero deltas in display order, e.g. "Skill +1".
func (e Effects) Labels() []string {
	var out []string
	for _, st := range AllStats {
		d, ok := e[st]
		if !ok || d == 0 {
			continue
		}
		name := strings.ToUpper(string(st[:1])) + string(st[1:])
		out = append(out, fmt.Sprintf("%s %+d", name, d))
	}
	return out
}

// Action is one of the daily choices available in the weekly loop.
type Action string

const (
	ActionWork      Action = "WORK"
	ActionStudy     Action = "STUDY"
	ActionComm      Action = "COMM"
	ActionRelax     Action = "RELAX"
	ActionFamily    Action = "FAMILY"
	ActionPortfolio Action = "PORTFOLIO"
)

// AllActions lists the actions in menu order.
var AllActions = []Action{ActionWork, ActionStudy, ActionComm, ActionRelax, ActionFamily, ActionPortfolio}

// Pose is an opaque presentation hint for the avatar.
type Pose string

const (
	PoseNormal    Pose = "normal"
	PoseWork      Pose = "work"
	PoseStudy     Pose = "study"
	PoseRelax     Pose = "relax"
	PoseHappy     Pose = "happy"
	PosePanic     Pose = "panic"
	PoseDead      Pose = "dead"
	PoseInterview Pose = "interview"
)

// MoodPose picks the resting avatar pose for the main view.
func MoodPose(s Stats) Pose {
	switch {
	case s.Mood < 30:
		return PoseDead
	case s.Mood < 60:
		return PosePanic
	default:
		return PoseNormal
	}
}

// Event is an immutable narrative outcome with its stat effects.
type Event struct {
	ID      string  `yaml:"id"`
	Title   string  `yaml:"title"`
	Text    string  `yaml:"text"`
	Effects Effects `yaml:"effects"`
	// Condition and Probability are part of the content schema; the selector
	// ignores them.
	Condition   Requirement `yaml:"condition,omitempty"`
	Probability float64     `yaml:"probability,omitempty"`
}

// Requirement is a set of minimum thresholds, all of which must hold.
type Requirement map[Stat]int

// Met reports whether every threshold in r holds for s.
func (r Requirement) Met(s Stats) bool {
	for st, floor := range r {
		if s.Get(st) < floor {
			return false
		}
	}
	return true
}

// InterviewConfig is the weekly gate.
type InterviewConfig struct {
	Week        int         `yaml:"week"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Pass        Requirement `yaml:"pass"`
	FailPenalty Effects     `yaml:"fail_penalty"`
}

// Passes evaluates the pass predicate.
func (iv InterviewConfig) Passes(s Stats) bool {
	return iv.Pass.Met(s)
}

// EndingType identifies one of the nine terminal outcomes.
type EndingType string

const (
	EndingGE1 EndingType = "GE1"
	EndingGE2 EndingType = "GE2"
	EndingGE3 EndingType = "GE3"
	EndingGE4 EndingType = "GE4"
	EndingBE1 EndingType = "BE1"
	EndingBE2 EndingType = "BE2"
	EndingBE3 EndingType = "BE3"
	EndingBE4 EndingType = "BE4"
	EndingNE  EndingType = "NE"
)

// AllEndings lists every ending, good ones first.
var AllEndings = []EndingType{
	EndingGE1, EndingGE2, EndingGE3, EndingGE4,
	EndingBE1, EndingBE2, EndingBE3, EndingBE4,
	EndingNE,
}

// Valid reports whether e is a known ending identifier.
func (e EndingType) Valid() bool {
	for _, known := range AllEndings {
		if e == known {
			return true
		}
	}
	return false
}

// IsGood follows the GE naming convention.
func (e EndingType) IsGood() bool { return strings.HasPrefix(string(e), "GE") }

// IsBad follows the BE naming convention.
func (e EndingType) IsBad() bool { return strings.HasPrefix(string(e), "BE") }

// EndingInfo is the display metadata for an ending.
type EndingInfo struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Hint        string `yaml:"hint"`
}

// Outfit is a cosmetic character choice.
type Outfit struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}
