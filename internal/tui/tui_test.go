package tui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatianab/noodle-king/internal/engine"
	"github.com/tatianab/noodle-king/internal/models"
	"github.com/tatianab/noodle-king/internal/narrator"
)

type constRand float64

func (r constRand) Float64() float64 { return float64(r) }

type stubNarrator struct{ text string }

func (s stubNarrator) Narrate(context.Context, narrator.Request) (string, error) {
	return s.text, nil
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, narr narrator.Narrator, opts ...engine.Option) (model, *Bell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	bell := NewBell(&out)
	opts = append([]engine.Option{engine.WithRand(constRand(0.99)), engine.WithCueHandler(bell.Play)}, opts...)
	eng := engine.New(opts...)
	t.Cleanup(eng.Close)
	return NewModel(context.Background(), eng, narr, bell, nil), bell, &out
}

func press(t *testing.T, m model, msgs ...tea.Msg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func TestOutfitSelection(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	assert.Contains(t, m.View(), "按 enter 开始")

	m, _ = press(t, m, enter, right, enter)
	assert.Equal(t, models.PhaseWeeklyLoop, m.state.Phase.Kind())
	assert.Equal(t, m.engine.Tables().Outfits[1].ID, m.state.Outfit)
	assert.Contains(t, m.View(), "[1] ")
}

func TestActionKeyResolvesAndNarrates(t *testing.T) {
	m, bell, _ := newTestModel(t, stubNarrator{text: "面汤很烫。"})
	m, _ = press(t, m, enter, enter)

	m, cmd := press(t, m, runes("6"))
	res, ok := m.state.Phase.(models.EventResult)
	require.True(t, ok)
	assert.Equal(t, models.ActionPortfolio, res.Action)
	assert.Equal(t, engine.CueClick, bell.Last())
	require.NotNil(t, cmd)

	m, _ = press(t, m, cmd())
	res = m.state.Phase.(models.EventResult)
	assert.Equal(t, "面汤很烫。", res.Narration)
	assert.Contains(t, m.View(), "面汤很烫。")
}

func TestStaleNarrationIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t, stubNarrator{text: "late"})
	m, _ = press(t, m, enter, enter)
	m, cmd := press(t, m, runes("1"))
	require.NotNil(t, cmd)
	msg := cmd()

	m, _ = press(t, m, enter, runes("1"), msg)
	res := m.state.Phase.(models.EventResult)
	assert.Empty(t, res.Narration)
}

func TestInterviewTick(t *testing.T) {
	m, _, _ := newTestModel(t, nil, engine.WithInterviewDelay(time.Millisecond))
	m, _ = press(t, m, enter, enter)
	for i := 0; i < 6; i++ {
		m, _ = press(t, m, runes("6"), enter)
	}
	require.Equal(t, models.PhaseInterview, m.state.Phase.Kind())

	m, cmd := press(t, m, enter)
	iv := m.state.Phase.(models.Interview)
	require.NotNil(t, iv.Result)
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "通过")

	// Confirming again while the verdict is on screen does nothing.
	m, again := press(t, m, enter)
	assert.Nil(t, again)

	fire := cmd()
	require.IsType(t, fireMsg{}, fire)
	m, _ = press(t, m, fire)
	assert.Equal(t, models.PhaseWeeklyLoop, m.state.Phase.Kind())
	assert.Equal(t, 2, m.state.Week)
	assert.Equal(t, 1, m.state.Day)
}

func TestRingRepeatsWhileRinging(t *testing.T) {
	m, _, out := newTestModel(t, nil, engine.WithInterviewDelay(time.Millisecond))
	m, _ = press(t, m, enter, enter)
	for i := 0; i < 6; i++ {
		m, _ = press(t, m, runes("6"), enter)
	}
	m, cmd := press(t, m, enter)
	m, _ = press(t, m, cmd())
	m, _ = press(t, m, runes("6"), enter)
	m, cmd = press(t, m, runes("6"), enter)

	call, ok := m.state.Phase.(models.ScamCall)
	require.True(t, ok)
	assert.Equal(t, models.CallRinging, call.Stage)
	assert.NotNil(t, cmd, "ringing schedules a repeat")

	before := bytes.Count(out.Bytes(), []byte("\a"))
	m, cmd = press(t, m, ringMsg{runID: m.state.RunID})
	assert.Equal(t, before+1, bytes.Count(out.Bytes(), []byte("\a")))
	assert.NotNil(t, cmd)

	m, _ = press(t, m, enter)
	_, cmd = press(t, m, ringMsg{runID: m.state.RunID})
	assert.Nil(t, cmd, "answered phones stop ringing")
	assert.Contains(t, m.View(), m.engine.Tables().ScamCall.Accept)
}

func TestRestartKey(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	m, _ = press(t, m, enter, enter, runes("1"))
	runID := m.state.RunID

	m, _ = press(t, m, runes("r"))
	assert.Equal(t, models.PhaseIntro, m.state.Phase.Kind())
	assert.NotEqual(t, runID, m.state.RunID)
	assert.Empty(t, m.state.History)
}

func TestEndingView(t *testing.T) {
	m, _, _ := newTestModel(t, nil, engine.WithInterviewDelay(time.Millisecond))
	m, _ = press(t, m, enter, enter)
	for m.state.Phase.Kind() != models.PhaseEnding {
		switch p := m.state.Phase.(type) {
		case models.WeeklyLoop:
			m, _ = press(t, m, runes("6"))
		case models.ScamCall:
			if p.Stage == models.CallRinging {
				m, _ = press(t, m, enter)
			} else {
				m, _ = press(t, m, runes("n"))
			}
		case models.Interview:
			var cmd tea.Cmd
			m, cmd = press(t, m, enter)
			m, _ = press(t, m, cmd())
		default:
			m, _ = press(t, m, enter)
		}
	}
	view := m.View()
	assert.Contains(t, view, "GE1")
	assert.Contains(t, view, m.engine.Tables().Ending(models.EndingGE1).Title)
	assert.Contains(t, view, "结局图鉴")

	m, _ = press(t, m, enter)
	assert.Equal(t, models.PhaseIntro, m.state.Phase.Kind())
}

func TestBellIsQuietForClicks(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out)
	b.Play(engine.CueClick)
	assert.Zero(t, out.Len())
	b.Play(engine.CueFail)
	assert.Equal(t, "\a", out.String())
	assert.Equal(t, engine.CueFail, b.Last())
}
