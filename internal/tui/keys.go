package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/tatianab/noodle-king/internal/models"
)

type keyMap struct {
	Actions []key.Binding
	Confirm key.Binding
	Prev    key.Binding
	Next    key.Binding
	Accept  key.Binding
	Reject  key.Binding
	Restart key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(labels func(models.Action) string) keyMap {
	km := keyMap{
		Confirm: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "continue")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "up", "k"), key.WithHelp("←", "prev")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "down", "j"), key.WithHelp("→", "next")),
		Accept:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "go along")),
		Reject:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "hang up")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("q", "quit")),
	}
	for i, a := range models.AllActions {
		k := string(rune('1' + i))
		km.Actions = append(km.Actions, key.NewBinding(key.WithKeys(k), key.WithHelp(k, labels(a))))
	}
	return km
}

// phaseKeys is the set of bindings live in one phase.
type phaseKeys []key.Binding

func (p phaseKeys) ShortHelp() []key.Binding { return p }

func (p phaseKeys) FullHelp() [][]key.Binding { return [][]key.Binding{p} }

func (k keyMap) forPhase(p models.Phase) phaseKeys {
	common := []key.Binding{k.Help, k.Restart, k.Quit}
	switch p := p.(type) {
	case models.CharacterSelect:
		return append(phaseKeys{k.Prev, k.Next, k.Confirm}, common...)
	case models.WeeklyLoop:
		return append(phaseKeys(k.Actions), common...)
	case models.ScamCall:
		if p.Stage == models.CallRinging {
			return append(phaseKeys{k.Confirm}, common...)
		}
		return append(phaseKeys{k.Accept, k.Reject}, common...)
	case models.Interview:
		if p.Result != nil {
			return common
		}
		return append(phaseKeys{k.Confirm}, common...)
	default:
		return append(phaseKeys{k.Confirm}, common...)
	}
}
