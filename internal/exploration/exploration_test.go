package exploration_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/combat"
	"github.com/pixil98/go-saga/internal/exploration"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
	"github.com/pixil98/go-saga/internal/inventory"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/rng"
	"github.com/pixil98/go-saga/internal/world"
)

type fixture struct {
	dict     *game.Dictionary
	store    *game.Store
	tracker  *gametest.Tracker
	explorer *exploration.Explorer
}

func newFixture(t *testing.T, src rng.Source) *fixture {
	t.Helper()
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)
	tr := &gametest.Tracker{}
	inv := inventory.NewLedger(st, dict, tr)
	r, err := narrative.NewRenderer(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cm := combat.NewManager(st, dict, src, inv, tr)
	return &fixture{
		dict:     dict,
		store:    st,
		tracker:  tr,
		explorer: exploration.NewExplorer(st, dict, src, cm, inv, tr, narrative.NewJournal(r, st)),
	}
}

func TestExplorer_Travel(t *testing.T) {
	tests := map[string]struct {
		from         string
		to           string
		floats       []float64
		ints         []int
		expErr       error
		expErrString string
		expCreature  string
	}{
		"unknown region": {
			to:     "TheVoid",
			expErr: game.ErrRegionNotFound,
		},
		"not a neighbor": {
			from:         "TheShatteredPeaks",
			to:           "TheLuminousPlains",
			expErr:       game.ErrNotAdjacent,
			expErrString: "The Luminous Plains cannot be reached from The Shattered Peaks",
		},
		"quiet road": {
			to:     "TheLuminousPlains",
			floats: []float64{0.5},
		},
		"ambushed": {
			to:          "TheShatteredPeaks",
			floats:      []float64{0.39},
			ints:        []int{1},
			expCreature: "echo_wraith",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, &rng.Scripted{Floats: tt.floats, Ints: tt.ints})
			if tt.from != "" {
				if err := f.store.UpdatePlayer(game.PlayerPatch{Location: &tt.from}); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			before := f.store.Player()

			res, err := f.explorer.Travel(tt.to)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				if tt.expErrString != "" {
					testutil.AssertErrorContains(t, err, tt.expErrString)
				}
				if diff := cmp.Diff(before, f.store.Player()); diff != "" {
					t.Errorf("player changed (-before +after):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			pl := f.store.Player()
			testutil.AssertEqual(t, "location", pl.Location, tt.to)
			testutil.AssertEqual(t, "minute", f.store.Time().Minute, 30)
			if diff := cmp.Diff([]string{"TheCentralNexus", tt.to}, pl.DiscoveredRegions); diff != "" {
				t.Errorf("discovered (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]game.ProgressEvent{game.LocationVisited{RegionID: tt.to}}, f.tracker.Events); diff != "" {
				t.Errorf("tracked (-want +got):\n%s", diff)
			}

			if tt.expCreature == "" {
				if res.Encounter != nil {
					t.Errorf("expected no encounter, got %+v", *res.Encounter)
				}
				return
			}
			if res.Encounter == nil {
				t.Fatalf("expected an encounter")
			}
			testutil.AssertEqual(t, "creature", res.Encounter.CreatureID, tt.expCreature)
			testutil.AssertEqual(t, "pending", len(f.explorer.Encounters()), 1)
		})
	}
}

func TestEncounterChance(t *testing.T) {
	day := game.StartTime()
	night := day.Advance(12 * 60)

	tests := map[string]struct {
		threat int
		at     game.GameTime
		exp    float64
	}{
		"safe":             {threat: 0, at: night, exp: 0},
		"daytime":          {threat: 4, at: day, exp: 0.4},
		"night":            {threat: 4, at: night, exp: 0.6},
		"night low threat": {threat: 1, at: night, exp: 0.15},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := exploration.EncounterChance(tt.threat, tt.at)
			if math.Abs(got-tt.exp) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.exp, got)
			}
		})
	}
}

func TestExplorer_ResolveEncounter(t *testing.T) {
	tests := map[string]struct {
		choice     exploration.Choice
		floats     []float64
		ints       []int
		expCombat  bool
		expEscaped bool
		expExp     int
		expErr     error
	}{
		"fight": {
			choice:    exploration.ChoiceFight,
			ints:      []int{1},
			expCombat: true,
		},
		"flee": {
			choice:     exploration.ChoiceFlee,
			floats:     []float64{0.3},
			expEscaped: true,
		},
		"flee fails": {
			choice:    exploration.ChoiceFlee,
			floats:    []float64{0.9},
			ints:      []int{1},
			expCombat: true,
		},
		"observe": {
			choice: exploration.ChoiceObserve,
			floats: []float64{0.2},
			ints:   []int{3},
			expExp: 8,
		},
		"observe unnoticed": {
			choice: exploration.ChoiceObserve,
			floats: []float64{0.7, 0.7},
		},
		"observe ambushed": {
			choice:    exploration.ChoiceObserve,
			floats:    []float64{0.7, 0.2},
			ints:      []int{1},
			expCombat: true,
		},
		"invalid choice": {
			choice: exploration.Choice("dance"),
			expErr: game.ErrActionUnavailable,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := &rng.Scripted{
				Floats: append([]float64{0.05}, tt.floats...),
				Ints:   append([]int{0}, tt.ints...),
			}
			f := newFixture(t, src)
			tr, err := f.explorer.Travel("TheLuminousPlains")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Encounter == nil {
				t.Fatalf("expected an encounter")
			}
			id := tr.Encounter.ID

			res, err := f.explorer.ResolveEncounter(id, tt.choice)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				testutil.AssertEqual(t, "still pending", len(f.explorer.Encounters()), 1)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "escaped", res.Escaped, tt.expEscaped)
			testutil.AssertEqual(t, "experience", res.Experience, tt.expExp)
			testutil.AssertEqual(t, "player experience", f.store.Player().Experience, tt.expExp)
			testutil.AssertEqual(t, "combat", res.Combat != nil, tt.expCombat)
			if res.Combat != nil {
				testutil.AssertEqual(t, "creature", res.Combat.CreatureID, "dire_wolf")
			}

			_, err = f.explorer.ResolveEncounter(id, tt.choice)
			if !errors.Is(err, game.ErrEncounterNotFound) {
				t.Errorf("expected encounter to be used up, got %v", err)
			}
		})
	}
}

func TestExplorer_ExploreLandmark(t *testing.T) {
	tests := map[string]struct {
		landmark    string
		floats      []float64
		expErr      error
		expFound    string
		expTracked  []game.ProgressEvent
		expJournal  string
		expInvCount map[string]int
	}{
		"unknown": {
			landmark: "lost_city",
			expErr:   game.ErrLandmarkNotFound,
		},
		"elsewhere": {
			landmark: "sunlit_shrine",
			expErr:   game.ErrNotAdjacent,
		},
		"finds the artifact": {
			landmark:    "ancient_nexus_tower",
			floats:      []float64{0.1},
			expFound:    "aether_crystal",
			expTracked:  []game.ProgressEvent{game.ItemFound{ItemID: "aether_crystal"}},
			expJournal:  "Explored Ancient Nexus Tower",
			expInvCount: map[string]int{"aether_crystal": 1},
		},
		"finds nothing": {
			landmark:    "ancient_nexus_tower",
			floats:      []float64{0.5},
			expJournal:  "Explored Ancient Nexus Tower",
			expInvCount: map[string]int{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, &rng.Scripted{Floats: tt.floats})

			res, err := f.explorer.ExploreLandmark(tt.landmark)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			pl := f.store.Player()
			if tt.expFound != "" {
				if res.Found == nil {
					t.Fatalf("expected to find %s", tt.expFound)
				}
				testutil.AssertEqual(t, "found", res.Found.ItemID, tt.expFound)
			} else if res.Found != nil {
				t.Errorf("expected nothing, found %s", res.Found.ItemID)
			}
			if diff := cmp.Diff(tt.expTracked, f.tracker.Events); diff != "" {
				t.Errorf("tracked (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.expInvCount, gametest.Counts(pl)); diff != "" {
				t.Errorf("inventory (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{tt.landmark}, pl.DiscoveredLandmarks); diff != "" {
				t.Errorf("discovered (-want +got):\n%s", diff)
			}
			testutil.AssertEqual(t, "journal", pl.Journal[len(pl.Journal)-1].Title, tt.expJournal)
			testutil.AssertEqual(t, "hour", f.store.Time().Hour, 9)
		})
	}
}

func TestExplorer_GatherResources(t *testing.T) {
	tests := map[string]struct {
		skillExp int
		event    string
		ints     []int
		expQty   int
	}{
		"unskilled": {
			ints:   []int{0, 2},
			expQty: 3,
		},
		"skilled during a boom": {
			skillExp: 80 + 120,
			event:    "global_resource_boom",
			ints:     []int{0, 2},
			expQty:   4,
		},
		"plague never leaves you empty handed": {
			event:  "cosmic_plague_outbreak",
			ints:   []int{0, 0},
			expQty: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := &rng.Scripted{Ints: tt.ints}
			f := newFixture(t, src)
			if tt.skillExp > 0 {
				f.store.AddSkillExperience(exploration.GatherSkill, tt.skillExp)
			}
			if tt.event != "" {
				if _, err := world.NewSystem(f.store, f.dict, src, nil).StartEvent(tt.event); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			res, err := f.explorer.GatherResources()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "quantity", res.Quantity, tt.expQty)
			testutil.AssertEqual(t, "message", res.Message, fmt.Sprintf("You gather %d Aether Crystal.", tt.expQty))
			if diff := cmp.Diff(map[string]int{"aether_crystal": tt.expQty}, gametest.Counts(f.store.Player())); diff != "" {
				t.Errorf("inventory (-want +got):\n%s", diff)
			}
			exp := []game.ProgressEvent{game.ItemCollected{ItemID: "aether_crystal", Quantity: tt.expQty}}
			if diff := cmp.Diff(exp, f.tracker.Events); diff != "" {
				t.Errorf("tracked (-want +got):\n%s", diff)
			}
			testutil.AssertEqual(t, "minute", f.store.Time().Minute, 30)
		})
	}
}

func TestGatherYield(t *testing.T) {
	tests := map[string]struct {
		base     int
		skill    int
		modifier float64
		exp      int
	}{
		"plain":          {base: 2, exp: 2},
		"skilled":        {base: 3, skill: 10, exp: 6},
		"boosted":        {base: 3, skill: 2, modifier: 0.2, exp: 4},
		"floored at one": {base: 1, modifier: -0.15, exp: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "yield", exploration.GatherYield(tt.base, tt.skill, tt.modifier), tt.exp)
		})
	}
}

func TestExplorer_NeighborsAndLandmarks(t *testing.T) {
	f := newFixture(t, &rng.Scripted{})

	exp := []exploration.Neighbor{
		{ID: "TheLuminousPlains", Name: "The Luminous Plains", ThreatLevel: 1},
		{ID: "TheShatteredPeaks", Name: "The Shattered Peaks", ThreatLevel: 4},
	}
	if diff := cmp.Diff(exp, f.explorer.Neighbors()); diff != "" {
		t.Errorf("neighbors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ancient_nexus_tower"}, f.explorer.Landmarks()); diff != "" {
		t.Errorf("landmarks (-want +got):\n%s", diff)
	}
}

func TestExplorer_Interact(t *testing.T) {
	f := newFixture(t, &rng.Scripted{})

	if err := f.explorer.Interact("library_research_table"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := []game.ProgressEvent{game.ObjectInteracted{ObjectID: "library_research_table"}}
	if diff := cmp.Diff(exp, f.tracker.Events); diff != "" {
		t.Errorf("tracked (-want +got):\n%s", diff)
	}
	if err := f.explorer.Interact(""); !errors.Is(err, game.ErrInvariantViolation) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}
