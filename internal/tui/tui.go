package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/noodle-king/internal/app"
	"github.com/tatianab/noodle-king/internal/config"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/models"
	"github.com/tatianab/noodle-king/internal/narrator"
	"go.uber.org/zap"
)

const (
	ringInterval     = time.Second
	narrationTimeout = 10 * time.Second
)

// Bell turns engine cues into terminal bells and remembers the last one for
// the status line.
type Bell struct {
	mu   sync.Mutex
	out  io.Writer
	last engine.Cue
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

// Play records c and rings for the cues worth interrupting the player for.
func (b *Bell) Play(c engine.Cue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = c
	if b.out == nil {
		return
	}
	switch c {
	case engine.CueRing, engine.CueSuccess, engine.CueFail:
		fmt.Fprint(b.out, "\a")
	}
}

func (b *Bell) Last() engine.Cue {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

type model struct {
	ctx      context.Context
	engine   *engine.Engine
	narrator narrator.Narrator
	bell     *Bell
	logger   *zap.Logger

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	bars     map[models.Stat]progress.Model

	state     models.GameState
	outfitIdx int
	width     int
	height    int
}

func NewModel(ctx context.Context, eng *engine.Engine, narr narrator.Narrator, bell *Bell, logger *zap.Logger) model {
	if bell == nil {
		bell = NewBell(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bars := make(map[models.Stat]progress.Model, len(models.AllStats))
	for _, st := range models.AllStats {
		bars[st] = progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage())
	}
	m := model{
		ctx:      ctx,
		engine:   eng,
		narrator: narr,
		bell:     bell,
		logger:   logger,
		keys:     newKeyMap(eng.Tables().Label),
		help:     help.New(),
		viewport: viewport.New(60, 10),
		bars:     bars,
	}
	m.sync()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

// fireMsg carries a deferred engine task whose delay has elapsed.
type fireMsg struct {
	task *engine.Deferred
}

type ringMsg struct {
	runID string
}

type narrationMsg struct {
	runID   string
	week    int
	day     int
	eventID string
	text    string
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-34, 30)
		m.viewport.Height = max(msg.Height-16, 5)
		m.sync()
		return m, nil

	case fireMsg:
		msg.task.Fire(m.ctx)
		m.sync()
		return m, nil

	case ringMsg:
		call, ok := m.state.Phase.(models.ScamCall)
		if !ok || call.Stage != models.CallRinging || m.state.RunID != msg.runID {
			return m, nil
		}
		m.bell.Play(engine.CueRing)
		return m, ringAfter(msg.runID)

	case narrationMsg:
		s := m.engine.State()
		if s.RunID == msg.runID && s.Week == msg.week && s.Day == msg.day {
			m.engine.AttachNarration(msg.eventID, msg.text)
		}
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.ctx
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.engine.Restart(ctx)
		m.outfitIdx = 0
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	switch p := m.state.Phase.(type) {
	case models.Intro:
		if key.Matches(msg, m.keys.Confirm) {
			m.engine.Start(ctx)
		}

	case models.CharacterSelect:
		outfits := m.engine.Tables().Outfits
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.outfitIdx = (m.outfitIdx + len(outfits) - 1) % len(outfits)
		case key.Matches(msg, m.keys.Next):
			m.outfitIdx = (m.outfitIdx + 1) % len(outfits)
		case key.Matches(msg, m.keys.Confirm):
			m.engine.ChooseOutfit(ctx, outfits[m.outfitIdx].ID)
		}

	case models.WeeklyLoop:
		for i, b := range m.keys.Actions {
			if key.Matches(msg, b) && m.engine.ResolveAction(ctx, models.AllActions[i]) {
				cmd = m.narrate()
				break
			}
		}

	case models.EventResult:
		if key.Matches(msg, m.keys.Confirm) && m.engine.AcknowledgeEvent(ctx) {
			if call, ok := m.engine.State().Phase.(models.ScamCall); ok && call.Stage == models.CallRinging {
				cmd = ringAfter(m.state.RunID)
			}
		}

	case models.ScamCall:
		switch {
		case p.Stage == models.CallRinging && key.Matches(msg, m.keys.Confirm):
			m.engine.AnswerCall(ctx)
		case p.Stage == models.CallDialog && key.Matches(msg, m.keys.Accept):
			m.engine.ResolveScamCall(ctx, true)
		case p.Stage == models.CallDialog && key.Matches(msg, m.keys.Reject):
			m.engine.ResolveScamCall(ctx, false)
		}

	case models.Interview:
		if key.Matches(msg, m.keys.Confirm) {
			if task, ok := m.engine.ResolveInterview(ctx); ok && task != nil {
				cmd = tea.Tick(task.Delay(), func(time.Time) tea.Msg { return fireMsg{task: task} })
			}
		}

	case models.Ending:
		if key.Matches(msg, m.keys.Confirm) {
			m.engine.Restart(ctx)
			m.outfitIdx = 0
		}
	}
	m.sync()
	return m, cmd
}

// narrate asks the narrator for flavor text for the event now on screen.
func (m model) narrate() tea.Cmd {
	if m.narrator == nil {
		return nil
	}
	s := m.engine.State()
	res, ok := s.Phase.(models.EventResult)
	if !ok {
		return nil
	}
	ctx, narr, logger := m.ctx, m.narrator, m.logger
	req := narrator.Request{Event: res.Event, Stats: s.Stats, Week: s.Week, Day: s.Day}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, narrationTimeout)
		defer cancel()
		text, err := narr.Narrate(ctx, req)
		if err != nil {
			logger.Warn("Narration failed", zap.String("event", req.Event.ID), zap.Error(err))
			return nil
		}
		return narrationMsg{runID: s.RunID, week: s.Week, day: s.Day, eventID: req.Event.ID, text: text}
	}
}

func ringAfter(runID string) tea.Cmd {
	return tea.Tick(ringInterval, func(time.Time) tea.Msg { return ringMsg{runID: runID} })
}

// sync refreshes the snapshot and the history viewport.
func (m *model) sync() {
	m.state = m.engine.State()
	m.viewport.SetContent(strings.Join(m.state.History, "\n"))
	m.viewport.GotoBottom()
}

// Run drives eng in a full-screen program until the player quits.
func Run(ctx context.Context, eng *engine.Engine, narr narrator.Narrator, bell *Bell, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(ctx, eng, narr, bell, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Start boots the game from the environment and runs it.
func Start() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	bell := NewBell(os.Stderr)
	eng := a.NewEngine(engine.WithCueHandler(bell.Play))
	defer eng.Close()

	return Run(ctx, eng, a.Narrator, bell, a.Logger)
}
