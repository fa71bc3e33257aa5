// Package content loads the static game tables: event pools, interviews,
// endings and the scripted scam call.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/tatianab/noodle-king/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// Weeks is the length of the calendar.
const Weeks = 6

// ActionDef is one entry of the action menu with its event pool.
type ActionDef struct {
	Action models.Action  `yaml:"action"`
	Label  string         `yaml:"label"`
	Events []models.Event `yaml:"events"`
}

// ScamScript is the text of the one-time scam-call interlude.
type ScamScript struct {
	Caller   string `yaml:"caller"`
	Ringing  string `yaml:"ringing"`
	Dialog   string `yaml:"dialog"`
	Accept   string `yaml:"accept"`
	Reject   string `yaml:"reject"`
	Scammed  string `yaml:"scammed"`
	Lucky    string `yaml:"lucky"`
	Rejected string `yaml:"rejected"`
}

// LogLines are the history prefixes for non-event entries.
type LogLines struct {
	InterviewPassed string `yaml:"interview_passed"`
	InterviewFailed string `yaml:"interview_failed"`
	CallRejected    string `yaml:"call_rejected"`
	CallScammed     string `yaml:"call_scammed"`
	CallLucky       string `yaml:"call_lucky"`
}

// Tables holds every read-only table. Nothing in it is mutated after Load.
type Tables struct {
	Actions      []ActionDef                             `yaml:"actions"`
	Special      []models.Event                          `yaml:"special"`
	Interviews   []models.InterviewConfig                `yaml:"interviews"`
	Endings      map[models.EndingType]models.EndingInfo `yaml:"endings"`
	InitialStats *models.Stats                           `yaml:"initial_stats"`
	Outfits      []models.Outfit                         `yaml:"outfits"`
	ScamCall     *ScamScript                             `yaml:"scam_call"`
	Log          *LogLines                               `yaml:"log"`
}

// Pool returns the event pool for an action.
func (t *Tables) Pool(a models.Action) []models.Event {
	for _, def := range t.Actions {
		if def.Action == a {
			return def.Events
		}
	}
	return nil
}

// Label returns the menu label for an action, or the action name.
func (t *Tables) Label(a models.Action) string {
	for _, def := range t.Actions {
		if def.Action == a && def.Label != "" {
			return def.Label
		}
	}
	return string(a)
}

// InterviewFor maps a 1-indexed week onto the interview table.
func (t *Tables) InterviewFor(week int) (models.InterviewConfig, bool) {
	if week < 1 || week > len(t.Interviews) {
		return models.InterviewConfig{}, false
	}
	return t.Interviews[week-1], true
}

// Ending returns the metadata for e.
func (t *Tables) Ending(e models.EndingType) models.EndingInfo {
	if info, ok := t.Endings[e]; ok {
		return info
	}
	return models.EndingInfo{Title: string(e)}
}

// HasOutfit reports whether id names a known outfit.
func (t *Tables) HasOutfit(id string) bool {
	for _, o := range t.Outfits {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Load reads every *.yaml file under data/ in fsys, merges them and validates
// the result.
func Load(fsys fs.FS) (*Tables, error) {
	files, err := fs.Glob(fsys, "data/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list content files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no content files found")
	}

	t := &Tables{}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var part Tables
		if err := yaml.Unmarshal(data, &part); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.merge(&part)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// merge copies the sections present in p. Files own disjoint sections, so a
// later file never overwrites an earlier one's data.
func (t *Tables) merge(p *Tables) {
	t.Actions = append(t.Actions, p.Actions...)
	t.Special = append(t.Special, p.Special...)
	t.Interviews = append(t.Interviews, p.Interviews...)
	t.Outfits = append(t.Outfits, p.Outfits...)
	if len(p.Endings) > 0 {
		if t.Endings == nil {
			t.Endings = make(map[models.EndingType]models.EndingInfo)
		}
		for k, v := range p.Endings {
			t.Endings[k] = v
		}
	}
	if p.InitialStats != nil {
		t.InitialStats = p.InitialStats
	}
	if p.ScamCall != nil {
		t.ScamCall = p.ScamCall
	}
	if p.Log != nil {
		t.Log = p.Log
	}
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded tables. A broken embedded table is an
// authoring error and panics.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = MustLoad(embedded)
	})
	return defaultTables
}

// MustLoad is Load that panics on error.
func MustLoad(fsys fs.FS) *Tables {
	t, err := Load(fsys)
	if err != nil {
		panic(fmt.Sprintf("content: %v", err))
	}
	return t
}
