package engine

// Cue names a sound the presentation layer may play. The engine only emits
// them; it never plays anything.
type Cue string

const (
	CueBGM     Cue = "bgm"
	CueClick   Cue = "click"
	CueJump    Cue = "jump"
	CueError   Cue = "error"
	CueSlurp   Cue = "slurp"
	CueSuccess Cue = "success"
	CueFail    Cue = "fail"
	CueRing    Cue = "ring"
)
