package narrative

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
)

func TestDisplayName(t *testing.T) {
	tests := map[string]struct {
		id  string
		exp string
	}{
		"snake case":  {id: "healing_potion", exp: "Healing Potion"},
		"camel case":  {id: "TheCentralNexus", exp: "The Central Nexus"},
		"single word": {id: "oven", exp: "Oven"},
		"mixed":       {id: "stable_flux", exp: "Stable Flux"},
		"dashes":      {id: "ring-of-ash", exp: "Ring Of Ash"},
		"empty":       {id: "", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", DisplayName(tt.id), tt.exp)
		})
	}
}

func TestRenderer_Entry(t *testing.T) {
	tests := map[string]struct {
		kind       Kind
		data       any
		expErr     string
		expTitle   string
		expContent string
		expCat     string
	}{
		"quest completed lists rewards": {
			kind: QuestCompleted,
			data: game.QuestInstance{
				Name: "Defeat Creatures",
				Rewards: game.Rewards{
					Experience: 75, Essence: 15,
					Items: []game.ItemAmount{{Item: "iron_ore", Quantity: 3}},
				},
			},
			expTitle:   "Quest completed: Defeat Creatures",
			expContent: "Rewards: 75 experience, 15 essence, 3 Iron Ore.",
			expCat:     "quest",
		},
		"quest accepted falls back": {
			kind:       QuestAccepted,
			data:       game.QuestInstance{Name: "Gather Resources"},
			expTitle:   "Quest accepted: Gather Resources",
			expContent: "A new task awaits.",
			expCat:     "quest",
		},
		"nexus shift": {
			kind:       NexusShift,
			data:       map[string]any{"State": "unstable_resonance", "Corruption": 0.25},
			expTitle:   "The Nexus shifts",
			expContent: "The Nexus is now unstable resonance at 25.0% corruption.",
			expCat:     "world",
		},
		"landmark uses lore": {
			kind:       LandmarkExplored,
			data:       game.LandmarkTemplate{Name: "Sunlit Shrine", Description: "A shrine.", Lore: "Pilgrims carve names."},
			expTitle:   "Explored Sunlit Shrine",
			expContent: "Pilgrims carve names.",
			expCat:     "exploration",
		},
		"unknown kind": {
			kind:   Kind("nope"),
			expErr: `no template for "nope"`,
		},
	}

	r, err := NewRenderer(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := r.Entry(tt.kind, tt.data)

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "title", e.Title, tt.expTitle)
			testutil.AssertEqual(t, "content", e.Content, tt.expContent)
			testutil.AssertEqual(t, "category", e.Category, tt.expCat)
		})
	}
}

func TestNewRenderer_Overrides(t *testing.T) {
	r, err := NewRenderer(map[Kind]EntryTemplate{
		QuestFailed: {Category: "quest", Title: "{{ .Name | upper }} FAILED", Content: "Try again."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, err := r.Entry(QuestFailed, game.QuestInstance{Name: "Explore"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "title", e.Title, "EXPLORE FAILED")

	_, err = NewRenderer(map[Kind]EntryTemplate{QuestFailed: {Title: "{{ .Name "}})
	testutil.AssertErrorContains(t, err, "template quest_failed")
}

func TestExpand(t *testing.T) {
	out, err := Expand("{{ .Name | title }} arrives", map[string]string{"Name": "mira"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "expanded", out, "Mira arrives")

	out, err = Expand("plain text", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "plain", out, "plain text")
}

func TestJournal_Record(t *testing.T) {
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)
	r, err := NewRenderer(map[Kind]EntryTemplate{
		"broken": {Title: "{{ .Missing.Field }}", Content: "x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j := NewJournal(r, st)

	e, ok := j.Record(QuestFailed, game.QuestInstance{Name: "Explore"})
	testutil.AssertEqual(t, "recorded", ok, true)
	testutil.AssertEqual(t, "day stamped", e.Time.Day, 1)
	if e.ID == "" {
		t.Errorf("expected an id to be assigned")
	}

	_, ok = j.Record("broken", game.QuestInstance{})
	testutil.AssertEqual(t, "broken recorded", ok, false)
	testutil.AssertEqual(t, "journal size", len(st.Player().Journal), 1)
}
