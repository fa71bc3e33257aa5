package models

// PhaseKind is the state-machine node a run is in.
type PhaseKind string

const (
	PhaseIntro           PhaseKind = "INTRO"
	PhaseCharacterSelect PhaseKind = "CHARACTER_SELECT"
	PhaseWeeklyLoop      PhaseKind = "WEEKLY_LOOP"
	PhaseEventResult     PhaseKind = "EVENT_RESULT"
	PhaseScamCall        PhaseKind = "SCAM_CALL"
	PhaseInterview       PhaseKind = "INTERVIEW"
	PhaseEnding          PhaseKind = "ENDING"
)

// Phase is the payload of the current node. Each node carries only the data
// that is meaningful while the run sits in it.
type Phase interface {
	Kind() PhaseKind
}

type Intro struct{}

type CharacterSelect struct{}

type WeeklyLoop struct{}

// EventResult shows the outcome of the last resolved action.
type EventResult struct {
	Action    Action
	Event     Event
	Text      string
	Pose      Pose
	Narration string
}

// CallStage is the sub-state of the scam-call interlude.
type CallStage string

const (
	CallRinging CallStage = "ringing"
	CallDialog  CallStage = "dialog"
)

type ScamCall struct {
	Stage CallStage
}

// InterviewResult is held on screen until the deferred transition fires.
type InterviewResult struct {
	Passed  bool
	Penalty Effects
}

type Interview struct {
	Config InterviewConfig
	Result *InterviewResult
}

type Ending struct {
	Type EndingType
}

func (Intro) Kind() PhaseKind           { return PhaseIntro }
func (CharacterSelect) Kind() PhaseKind { return PhaseCharacterSelect }
func (WeeklyLoop) Kind() PhaseKind      { return PhaseWeeklyLoop }
func (EventResult) Kind() PhaseKind     { return PhaseEventResult }
func (ScamCall) Kind() PhaseKind        { return PhaseScamCall }
func (Interview) Kind() PhaseKind       { return PhaseInterview }
func (Ending) Kind() PhaseKind          { return PhaseEnding }

// GameState is one run. Snapshots handed to callers are copies.
type GameState struct {
	RunID            string
	Phase            Phase
	Week             int
	Day              int
	Stats            Stats
	History          []string
	PassedInterviews int
	Ending           EndingType
	Outfit           string
}

// NewGameState returns a fresh run positioned at the intro.
func NewGameState(runID string, initial Stats) GameState {
	return GameState{
		RunID: runID,
		Phase: Intro{},
		Week:  1,
		Day:   1,
		Stats: initial,
	}
}

// Clone copies the mutable parts of s.
func (s GameState) Clone() GameState {
	out := s
	out.History = append([]string(nil), s.History...)
	if iv, ok := s.Phase.(Interview); ok && iv.Result != nil {
		r := *iv.Result
		iv.Result = &r
		out.Phase = iv
	}
	return out
}
