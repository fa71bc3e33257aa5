package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/noodle-king/internal/content"
	"github.com/tatianab/noodle-king/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true)
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(1, 2)
)

// Cosmetic bar caps. Stats themselves are unbounded above.
const (
	barCap      = 100
	moneyBarCap = 200
)

func (m model) View() string {
	var body string
	switch p := m.state.Phase.(type) {
	case models.Intro:
		body = m.viewIntro()
	case models.CharacterSelect:
		body = m.viewOutfits()
	case models.WeeklyLoop:
		body = m.withPanel(m.viewLoop())
	case models.EventResult:
		body = m.withPanel(m.viewEvent(p))
	case models.ScamCall:
		body = m.withPanel(m.viewCall(p))
	case models.Interview:
		body = m.withPanel(m.viewInterview(p))
	case models.Ending:
		body = m.viewEnding(p)
	}

	status := ""
	if c := m.bell.Last(); c != "" {
		status = dimStyle.Render("♪ " + string(c))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		body,
		"",
		status,
		m.help.View(m.keys.forPhase(m.state.Phase)),
	)
}

func (m model) viewIntro() string {
	unlocked := m.engine.Unlocked()
	lines := []string{
		titleStyle.Render("面馆打工人的求职六周"),
		"",
		textStyle.Render("六周，六场面试。白天煮面，晚上投简历。"),
		"",
		dimStyle.Render(fmt.Sprintf("已解锁结局 %d/%d", len(unlocked), len(models.AllEndings))),
		"",
		"按 enter 开始",
	}
	return strings.Join(lines, "\n")
}

func (m model) viewOutfits() string {
	var items []string
	for i, o := range m.engine.Tables().Outfits {
		if i == m.outfitIdx {
			items = append(items, selectedStyle.Render(o.Label))
		} else {
			items = append(items, lipgloss.NewStyle().Padding(0, 1).Render(o.Label))
		}
	}
	return titleStyle.Render("选择造型") + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m model) viewLoop() string {
	t := m.engine.Tables()
	var menu []string
	for i, a := range models.AllActions {
		menu = append(menu, fmt.Sprintf("[%d] %s", i+1, t.Label(a)))
	}
	return titleStyle.Render("今天做什么？") + "\n\n" +
		strings.Join(menu, "   ") + "\n\n" +
		m.viewport.View()
}

func (m model) viewEvent(p models.EventResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Event.Title) + "\n\n")
	b.WriteString(textStyle.Render(p.Text) + "\n\n")
	if labels := p.Event.Effects.Labels(); len(labels) > 0 {
		b.WriteString(effectLine(p.Event.Effects) + "\n")
	}
	if p.Narration != "" {
		b.WriteString("\n" + dimStyle.Render(p.Narration) + "\n")
	}
	b.WriteString(dimStyle.Render("pose: "+string(p.Pose)) + "\n")
	return cardStyle.Render(b.String())
}

func (m model) viewCall(p models.ScamCall) string {
	script := m.engine.Tables().ScamCall
	if p.Stage == models.CallRinging {
		return cardStyle.Render(titleStyle.Render("☎ "+script.Caller) + "\n\n" + script.Ringing + "\n\n" + dimStyle.Render("按 enter 接听"))
	}
	return cardStyle.Render(titleStyle.Render(script.Caller) + "\n\n" + script.Dialog + "\n\n" +
		fmt.Sprintf("[y] %s   [n] %s", script.Accept, script.Reject))
}

func (m model) viewInterview(p models.Interview) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("第 %d 周面试：%s", m.state.Week, p.Config.Title)) + "\n\n")
	b.WriteString(p.Config.Description + "\n\n")
	b.WriteString(dimStyle.Render("要求: "+requirementLine(p.Config.Pass)) + "\n\n")
	switch {
	case p.Result == nil:
		b.WriteString("按 enter 进入面试")
	case p.Result.Passed:
		b.WriteString(goodStyle.Render("通过！"))
	default:
		b.WriteString(badStyle.Render("没过。"))
		if len(p.Result.Penalty) > 0 {
			b.WriteString(" " + effectLine(p.Result.Penalty))
		}
	}
	return cardStyle.Render(b.String())
}

func (m model) viewEnding(p models.Ending) string {
	info := m.engine.Tables().Ending(p.Type)
	style := goodStyle
	if p.Type.IsBad() {
		style = badStyle
	}

	var gallery []string
	unlocked := make(map[models.EndingType]bool)
	for _, e := range m.engine.Unlocked() {
		unlocked[e] = true
	}
	for _, e := range models.AllEndings {
		other := m.engine.Tables().Ending(e)
		if unlocked[e] {
			gallery = append(gallery, fmt.Sprintf("%-3s %s", e, other.Title))
		} else {
			gallery = append(gallery, dimStyle.Render(fmt.Sprintf("%-3s ??? %s", e, other.Hint)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		style.Render(fmt.Sprintf("[%s] %s", p.Type, info.Title)),
		"",
		cardStyle.Render(info.Description),
		"",
		titleStyle.Render("结局图鉴"),
		strings.Join(gallery, "\n"),
		"",
		"按 enter 再来一局",
	)
}

// withPanel puts the calendar and stats to the right of body.
func (m model) withPanel(body string) string {
	var b strings.Builder
	week := min(m.state.Week, content.Weeks)
	b.WriteString(titleStyle.Render(fmt.Sprintf("第 %d/%d 周 · 第 %d 天", week, content.Weeks, m.state.Day)) + "\n\n")
	for _, st := range models.AllStats {
		v := m.state.Stats.Get(st)
		limit := barCap
		if st == models.StatMoney {
			limit = moneyBarCap
		}
		pct := float64(min(v, limit)) / float64(limit)
		b.WriteString(fmt.Sprintf("%-6s %4d %s\n", st, v, m.bars[st].ViewAs(pct)))
	}
	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("pose: %s  outfit: %s", models.MoodPose(m.state.Stats), m.state.Outfit)))
	b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("面试通过 %d", m.state.PassedInterviews)))
	return lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Render(b.String()))
}

func effectLine(e models.Effects) string {
	var parts []string
	for _, l := range e.Labels() {
		if strings.Contains(l, "-") {
			parts = append(parts, badStyle.Render(l))
		} else {
			parts = append(parts, goodStyle.Render(l))
		}
	}
	return strings.Join(parts, " ")
}

func requirementLine(r models.Requirement) string {
	var parts []string
	for _, st := range models.AllStats {
		if v, ok := r[st]; ok {
			parts = append(parts, fmt.Sprintf("%s ≥ %d", st, v))
		}
	}
	if len(parts) == 0 {
		return "无"
	}
	return strings.Join(parts, ", ")
}
