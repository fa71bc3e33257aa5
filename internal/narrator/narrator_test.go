package narrator

import (
	"strings"
	"testing"

	"github.com/tatianab/noodle-king/internal/models"
)

func TestRenderPrompt(t *testing.T) {
	req := Request{
		Event: models.Event{
			ID:      "w4",
			Title:   "挂面锅糊了",
			Text:    "结果把挂面煮糊了。",
			Effects: models.Effects{models.StatMood: -2, models.StatMoney: -5},
		},
		Stats: models.Stats{Skill: 12, Comm: 10, Mood: 78, Family: 50, Money: 95},
		Week:  2,
		Day:   4,
	}

	prompt, err := RenderPrompt(req)
	if err != nil {
		t.Fatalf("RenderPrompt() error = %v", err)
	}
	for _, want := range []string{"挂面锅糊了", "结果把挂面煮糊了。", "Mood -2 Money -5", "心态 78", "第 2 周第 4 天"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRenderPromptNoEffects(t *testing.T) {
	prompt, err := RenderPrompt(Request{Event: models.Event{Title: "空"}})
	if err != nil {
		t.Fatalf("RenderPrompt() error = %v", err)
	}
	if !strings.Contains(prompt, "数值变化：无") {
		t.Errorf("expected empty effects marker:\n%s", prompt)
	}
}

func TestClean(t *testing.T) {
	cases := map[string]string{
		"  “锅比你先熟了。”  ":     "锅比你先熟了。",
		"第一行\n第二行":         "第一行",
		"\"plain\"":         "plain",
		"":                  "",
	}
	for in, want := range cases {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}
