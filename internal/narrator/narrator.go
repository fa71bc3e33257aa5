// Package narrator adds optional generated flavor text to event results.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/noodle-king/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/narrate_event.txt
var narrateEventPrompt string

var narrateTmpl = template.Must(template.New("narrate_event").Parse(narrateEventPrompt))

// Request is what the narrator knows about the event on screen.
type Request struct {
	Event models.Event
	Stats models.Stats
	Week  int
	Day   int
}

// Narrator produces one line of flavor text for an event.
type Narrator interface {
	Narrate(ctx context.Context, req Request) (string, error)
}

// Gemini narrates with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.9)
	model.SetMaxOutputTokens(128)
	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Narrate(ctx context.Context, req Request) (string, error) {
	prompt, err := RenderPrompt(req)
	if err != nil {
		return "", err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return Clean(string(text)), nil
}

// RenderPrompt fills the embedded prompt template.
func RenderPrompt(req Request) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Title   string
		Text    string
		Effects []string
		Stats   models.Stats
		Week    int
		Day     int
	}{
		Title:   req.Event.Title,
		Text:    req.Event.Text,
		Effects: req.Event.Effects.Labels(),
		Stats:   req.Stats,
		Week:    req.Week,
		Day:     req.Day,
	}
	if err := narrateTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Clean trims the model output down to a single line.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"“”")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
