package narrative

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/go-saga/internal/game"
)

type Kind string

const (
	QuestAccepted          Kind = "quest_accepted"
	QuestCompleted         Kind = "quest_completed"
	QuestFailed            Kind = "quest_failed"
	LandmarkExplored       Kind = "landmark_explored"
	WorldEventStarted      Kind = "world_event_started"
	WorldEventEnded        Kind = "world_event_ended"
	NexusShift             Kind = "nexus_shift"
	ForgerIntervention     Kind = "forger_intervention"
	ConsciousnessInsight   Kind = "consciousness_insight"
	ConsciousnessDesire    Kind = "consciousness_desire"
	ConsciousnessMilestone Kind = "consciousness_milestone"
)

// EntryTemplate is the source text for one kind of journal entry.
type EntryTemplate struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

var defaultTemplates = map[Kind]EntryTemplate{
	QuestAccepted: {
		Category: "quest",
		Title:    "Quest accepted: {{ .Name }}",
		Content:  `{{ .Description | default "A new task awaits." }}`,
	},
	QuestCompleted: {
		Category: "quest",
		Title:    "Quest completed: {{ .Name }}",
		Content: "Rewards: {{ .Rewards.Experience }} experience, {{ .Rewards.Essence }} essence" +
			"{{ range .Rewards.Items }}, {{ .Quantity }} {{ displayName .Item }}{{ end }}" +
			"{{ range $skill, $xp := .Rewards.SkillExperience }}, {{ $xp }} {{ displayName $skill }} experience{{ end }}.",
	},
	QuestFailed: {
		Category: "quest",
		Title:    "Quest failed: {{ .Name }}",
		Content:  "The opportunity has passed.",
	},
	LandmarkExplored: {
		Category: "exploration",
		Title:    "Explored {{ .Name }}",
		Content:  "{{ .Lore | default .Description }}",
	},
	WorldEventStarted: {
		Category: "world",
		Title:    "{{ .Name }} begins",
		Content:  `{{ .Description | default "Something stirs across the world." }}`,
	},
	WorldEventEnded: {
		Category: "world",
		Title:    "{{ .Name }} has passed",
		Content:  "The world settles once more.",
	},
	NexusShift: {
		Category: "world",
		Title:    "The Nexus shifts",
		Content:  `The Nexus is now {{ .State | displayName | lower }} at {{ mulf .Corruption 100 | printf "%.1f" }}% corruption.`,
	},
	ForgerIntervention: {
		Category: "forger",
		Title:    "{{ .Tool }}",
		Content:  "{{ .Message }}",
	},
	ConsciousnessInsight: {
		Category: "consciousness",
		Title:    "A stirring in the saga",
		Content:  "{{ .Insight }}",
	},
	ConsciousnessDesire: {
		Category: "consciousness",
		Title:    "The saga whispers",
		Content:  "{{ .Message }}",
	},
	ConsciousnessMilestone: {
		Category: "consciousness",
		Title:    "A bond deepens",
		Content:  "The saga's regard for you has reached {{ .Level }}.",
	},
}

// DefaultTemplates returns a copy of the built-in entry templates.
func DefaultTemplates() map[Kind]EntryTemplate {
	return maps.Clone(defaultTemplates)
}

type parsed struct {
	category string
	title    *template.Template
	content  *template.Template
}

// Renderer turns domain data into journal entries.
type Renderer struct {
	entries map[Kind]parsed
}

// NewRenderer parses the built-in templates with overrides layered on top.
func NewRenderer(overrides map[Kind]EntryTemplate) (*Renderer, error) {
	src := DefaultTemplates()
	maps.Copy(src, overrides)

	r := &Renderer{entries: make(map[Kind]parsed, len(src))}
	for kind, et := range src {
		title, err := parse(string(kind)+".title", et.Title)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", kind, err)
		}
		content, err := parse(string(kind)+".content", et.Content)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", kind, err)
		}
		r.entries[kind] = parsed{category: et.Category, title: title, content: content}
	}
	return r, nil
}

// Entry renders the template for kind against data. The returned entry has
// no id or time; the store stamps those when it is added.
func (r *Renderer) Entry(kind Kind, data any) (game.JournalEntry, error) {
	p, ok := r.entries[kind]
	if !ok {
		return game.JournalEntry{}, fmt.Errorf("no template for %q", kind)
	}

	title, err := execute(p.title, data)
	if err != nil {
		return game.JournalEntry{}, fmt.Errorf("rendering %s title: %w", kind, err)
	}
	content, err := execute(p.content, data)
	if err != nil {
		return game.JournalEntry{}, fmt.Errorf("rendering %s content: %w", kind, err)
	}

	return game.JournalEntry{Category: p.category, Title: title, Content: content}, nil
}

// Journal renders entries straight into a store's journal.
type Journal struct {
	renderer *Renderer
	store    *game.Store
}

func NewJournal(r *Renderer, store *game.Store) *Journal {
	return &Journal{renderer: r, store: store}
}

// Record renders kind against data and appends it. A template that fails to
// render is logged and skipped; journaling never fails a game action.
func (j *Journal) Record(kind Kind, data any) (game.JournalEntry, bool) {
	e, err := j.renderer.Entry(kind, data)
	if err != nil {
		slog.Warn("skipping journal entry", "kind", kind, "error", err)
		return game.JournalEntry{}, false
	}
	return j.store.AddJournalEntry(e), true
}

var templateFuncs = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["displayName"] = DisplayName
	return fm
}()

func parse(name, src string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// Expand renders a one-off template string.
func Expand(src string, data any) (string, error) {
	if !strings.Contains(src, "{{") {
		return src, nil
	}
	tmpl, err := parse("", src)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// DisplayName turns an id such as "healing_potion" or "TheCentralNexus"
// into title-cased words.
func DisplayName(id string) string {
	var (
		words []string
		cur   []rune
		prev  rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range id {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && len(cur) > 0 && !unicode.IsUpper(prev):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()

	return cases.Title(language.English).String(strings.Join(words, " "))
}
