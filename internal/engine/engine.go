package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/noodle-king/internal/content"
	"github.com/tatianab/noodle-king/internal/models"
	"github.com/tatianab/noodle-king/internal/unlocks"
	"go.uber.org/zap"
)

// DefaultInterviewDelay is how long an interview verdict stays on screen.
const DefaultInterviewDelay = 2000 * time.Millisecond

// ScamCoin is the probability that accepting the call goes badly.
const ScamCoin = 0.5

// Engine owns one game run and every transition of it. Commands are
// serialized; each returns whether it was applied, and a command issued in
// the wrong phase is a silent no-op.
type Engine struct {
	mu sync.Mutex

	tables         *content.Tables
	rng            Rand
	unlocks        *unlocks.Tracker
	logger         *zap.Logger
	log            *zap.Logger
	interviewDelay time.Duration
	onCue          func(Cue)

	state models.GameState

	// generating guards action resolution while event content is produced.
	// Selection is synchronous today, so nothing sets it.
	generating    bool
	interviewBusy bool
	bgmStarted    bool

	epoch   uint64
	pending *Deferred
	closed  bool
	cues    []Cue
}

// Option configures an Engine.
type Option func(*Engine)

// WithTables replaces the embedded content.
func WithTables(t *content.Tables) Option {
	return func(e *Engine) { e.tables = t }
}

// WithRand injects the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithUnlocks attaches the unlock store. Without one, endings are not persisted.
func WithUnlocks(t *unlocks.Tracker) Option {
	return func(e *Engine) { e.unlocks = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithInterviewDelay(d time.Duration) Option {
	return func(e *Engine) { e.interviewDelay = d }
}

// WithCueHandler registers a sound cue listener. It is called after the
// command that emitted the cue has released the engine.
func WithCueHandler(fn func(Cue)) Option {
	return func(e *Engine) { e.onCue = fn }
}

// New creates an engine positioned at the intro of a fresh run.
func New(opts ...Option) *Engine {
	e := &Engine{
		interviewDelay: DefaultInterviewDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tables == nil {
		e.tables = content.Default()
	}
	if e.rng == nil {
		e.rng = NewRand(0)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	e.newRun()
	return e
}

// Tables exposes the content the engine runs on.
func (e *Engine) Tables() *content.Tables {
	return e.tables
}

// State returns a snapshot of the current run.
func (e *Engine) State() models.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Unlocked lists every ending reached across runs.
func (e *Engine) Unlocked() []models.EndingType {
	if e.unlocks == nil {
		return nil
	}
	return e.unlocks.List()
}

// Close disposes of the engine. Pending deferred tasks are cancelled and all
// later commands are no-ops.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.epoch++
	e.cancelPendingLocked()
	e.log.Debug("Engine closed")
}

// Restart replaces the run with a fresh one at the intro. The unlock store
// and the background-music flag survive.
func (e *Engine) Restart(ctx context.Context) bool {
	return e.do(func() bool {
		e.epoch++
		e.cancelPendingLocked()
		e.newRun()
		return true
	})
}

// Start leaves the intro for character select.
func (e *Engine) Start(ctx context.Context) bool {
	return e.do(func() bool {
		if _, ok := e.state.Phase.(models.Intro); !ok {
			return false
		}
		if !e.bgmStarted {
			e.bgmStarted = true
			e.emit(CueBGM)
		}
		e.emit(CueJump)
		e.setPhase(models.CharacterSelect{})
		return true
	})
}

// ChooseOutfit picks the cosmetic outfit and enters the weekly loop.
func (e *Engine) ChooseOutfit(ctx context.Context, outfit string) bool {
	return e.do(func() bool {
		if _, ok := e.state.Phase.(models.CharacterSelect); !ok {
			return false
		}
		if !e.tables.HasOutfit(outfit) {
			return false
		}
		e.state.Outfit = outfit
		e.emit(CueClick)
		e.setPhase(models.WeeklyLoop{})
		return true
	})
}

// ResolveAction plays one day: draws an event for action, applies it and
// shows the result.
func (e *Engine) ResolveAction(ctx context.Context, action models.Action) bool {
	return e.do(func() bool {
		if _, ok := e.state.Phase.(models.WeeklyLoop); !ok {
			return false
		}
		if e.generating {
			return false
		}
		pool := e.tables.Pool(action)
		if pool == nil {
			return false
		}

		e.emit(CueClick)
		ev, pose := SelectEvent(action, pool, e.tables.Special, e.rng)
		e.state.Stats = models.ApplyEffects(e.state.Stats, ev.Effects)
		e.appendHistory(ev.Title)

		switch mood := ev.Effects.Delta(models.StatMood); {
		case mood < 0:
			e.emit(CueError)
		case mood > 5:
			e.emit(CueSlurp)
		}

		e.log.Debug("Resolved action",
			zap.String("action", string(action)),
			zap.String("event", ev.ID),
			zap.String("pose", string(pose)),
			zap.Any("stats", e.state.Stats))

		e.setPhase(models.EventResult{
			Action: action,
			Event:  ev,
			Text:   ev.Text,
			Pose:   pose,
		})
		return true
	})
}

// AttachNarration adds flavor text to the event result on screen. It is
// dropped if the player has already moved past that event.
func (e *Engine) AttachNarration(eventID, text string) bool {
	return e.do(func() bool {
		res, ok := e.state.Phase.(models.EventResult)
		if !ok || res.Event.ID != eventID {
			return false
		}
		res.Narration = text
		e.state.Phase = res
		return true
	})
}

// AcknowledgeEvent closes the event result and advances the calendar.
func (e *Engine) AcknowledgeEvent(ctx context.Context) bool {
	return e.do(func() bool {
		if _, ok := e.state.Phase.(models.EventResult); !ok {
			return false
		}
		if ending, ok := CatastrophicEnding(e.state.Stats); ok {
			e.finish(ctx, ending)
			return true
		}

		week := e.state.Week
		e.state.Day++
		switch {
		case week == 2 && e.state.Day == 3:
			e.emit(CueRing)
			e.setPhase(models.ScamCall{Stage: models.CallRinging})
		case e.state.Day > 6:
			cfg, _ := e.tables.InterviewFor(week)
			e.setPhase(models.Interview{Config: cfg})
		default:
			e.setPhase(models.WeeklyLoop{})
		}
		return true
	})
}

// AnswerCall picks up the ringing phone.
func (e *Engine) AnswerCall(ctx context.Context) bool {
	return e.do(func() bool {
		call, ok := e.state.Phase.(models.ScamCall)
		if !ok || call.Stage != models.CallRinging {
			return false
		}
		e.emit(CueClick)
		e.setPhase(models.ScamCall{Stage: models.CallDialog})
		return true
	})
}

// ResolveScamCall settles the call. Hanging up is always safe; going along
// with the caller is a coin flip between a referral and losing everything.
func (e *Engine) ResolveScamCall(ctx context.Context, accept bool) bool {
	return e.do(func() bool {
		call, ok := e.state.Phase.(models.ScamCall)
		if !ok || call.Stage != models.CallDialog {
			return false
		}
		lines := e.tables.Log

		if !accept {
			e.state.Stats = models.ApplyEffects(e.state.Stats, models.Effects{models.StatSkill: 5})
			e.appendHistory(lines.CallRejected)
			e.emit(CueSuccess)
			e.setPhase(models.WeeklyLoop{})
			return true
		}

		if e.rng.Float64() < ScamCoin {
			e.state.Stats.Money = 0
			e.appendHistory(lines.CallScammed)
			e.finish(ctx, models.EndingBE4)
			return true
		}
		e.state.Stats = models.ApplyEffects(e.state.Stats, models.Effects{models.StatSkill: 10})
		e.appendHistory(lines.CallLucky)
		e.emit(CueSuccess)
		e.setPhase(models.WeeklyLoop{})
		return true
	})
}

// ResolveInterview evaluates this week's interview. The verdict is shown in
// the interview payload; the returned task moves on to the next week (or
// the ending) when fired. A nil task with applied=true means the run was
// finalized immediately.
func (e *Engine) ResolveInterview(ctx context.Context) (*Deferred, bool) {
	var task *Deferred
	applied := e.do(func() bool {
		iv, ok := e.state.Phase.(models.Interview)
		if !ok || e.interviewBusy || iv.Result != nil {
			return false
		}

		cfg, ok := e.tables.InterviewFor(e.state.Week)
		if !ok {
			e.finalize(ctx)
			return true
		}

		res := &models.InterviewResult{Passed: cfg.Passes(e.state.Stats)}
		if res.Passed {
			e.state.PassedInterviews++
			e.appendHistory(e.tables.Log.InterviewPassed + ": " + cfg.Title)
			e.emit(CueSuccess)
		} else {
			res.Penalty = cfg.FailPenalty
			e.state.Stats = models.ApplyEffects(e.state.Stats, cfg.FailPenalty)
			e.appendHistory(e.tables.Log.InterviewFailed + ": " + cfg.Title)
			e.emit(CueFail)
		}
		e.log.Debug("Interview resolved",
			zap.Int("week", e.state.Week),
			zap.Bool("passed", res.Passed),
			zap.Int("passed_total", e.state.PassedInterviews))

		e.state.Phase = models.Interview{Config: cfg, Result: res}
		e.interviewBusy = true
		task = e.deferLocked(e.interviewDelay, e.advanceWeek)
		return true
	})
	return task, applied
}

// advanceWeek runs under the engine lock when the interview task fires.
func (e *Engine) advanceWeek(ctx context.Context) {
	e.interviewBusy = false
	if e.state.Week >= content.Weeks {
		e.finalize(ctx)
		return
	}
	e.state.Week++
	e.state.Day = 1
	e.setPhase(models.WeeklyLoop{})
}

// finalize resolves the end of a completed calendar, lottery included.
func (e *Engine) finalize(ctx context.Context) {
	if e.state.Week <= content.Weeks {
		e.state.Week = content.Weeks + 1
	}
	ending := FinalizeEnding(e.state.Stats, e.state.PassedInterviews, e.state.Week, e.rng)
	e.finish(ctx, ending)
}

func (e *Engine) finish(ctx context.Context, ending models.EndingType) {
	e.state.Ending = ending
	e.setPhase(models.Ending{Type: ending})
	if ending.IsBad() {
		e.emit(CueFail)
	} else {
		e.emit(CueSuccess)
	}
	e.log.Info("Run finished",
		zap.String("ending", string(ending)),
		zap.Int("week", e.state.Week),
		zap.Int("passed_interviews", e.state.PassedInterviews))

	if e.unlocks == nil {
		return
	}
	if _, err := e.unlocks.Record(ctx, ending); err != nil {
		e.log.Warn("Failed to persist unlocked ending", zap.String("ending", string(ending)), zap.Error(err))
	}
}

func (e *Engine) newRun() {
	id := uuid.NewString()
	e.state = models.NewGameState(id, *e.tables.InitialStats)
	e.generating = false
	e.interviewBusy = false
	e.log = e.logger.With(zap.String("run_id", id))
	e.log.Debug("New run")
}

func (e *Engine) deferLocked(delay time.Duration, run func(ctx context.Context)) *Deferred {
	e.cancelPendingLocked()
	d := &Deferred{eng: e, epoch: e.epoch, delay: delay, run: run}
	e.pending = d
	return d
}

func (e *Engine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
}

func (e *Engine) setPhase(p models.Phase) {
	if e.state.Phase != nil && e.state.Phase.Kind() != p.Kind() {
		e.log.Debug("Phase change",
			zap.String("from", string(e.state.Phase.Kind())),
			zap.String("to", string(p.Kind())),
			zap.Int("week", e.state.Week),
			zap.Int("day", e.state.Day))
	}
	e.state.Phase = p
}

func (e *Engine) appendHistory(text string) {
	e.state.History = append(e.state.History, fmt.Sprintf("Week %d Day %d: %s", e.state.Week, e.state.Day, text))
}

func (e *Engine) emit(c Cue) {
	e.cues = append(e.cues, c)
}

// do runs fn under the engine lock and then delivers the cues it emitted.
func (e *Engine) do(fn func() bool) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	applied := fn()
	cues := e.cues
	e.cues = nil
	e.mu.Unlock()

	if e.onCue != nil {
		for _, c := range cues {
			e.onCue(c)
		}
	}
	return applied
}
