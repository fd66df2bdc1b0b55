package npc_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
	"github.com/pixil98/go-saga/internal/npc"
	"github.com/pixil98/go-saga/internal/rng"
)

func newSimulation(t *testing.T, src rng.Source) (*npc.Simulation, *game.Store) {
	t.Helper()
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)
	return npc.NewSimulation(st, dict, src), st
}

func spawn(t *testing.T, sim *npc.Simulation, role string) game.NPC {
	t.Helper()
	n, err := sim.Spawn(role, "Oakvale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return n
}

func TestCurrentEntry(t *testing.T) {
	guard := gametest.Roles()["guard"].Schedule

	tests := map[string]struct {
		hour        int
		expActivity string
	}{
		"morning":          {hour: 6, expActivity: "patrol_start"},
		"midday":           {hour: 12, expActivity: "shift_change"},
		"late evening":     {hour: 23, expActivity: "rest"},
		"small hours":      {hour: 2, expActivity: "night_watch"},
		"before any entry": {hour: 1, expActivity: "patrol_start"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, ok := npc.CurrentEntry(guard, tt.hour)
			testutil.AssertEqual(t, "found", ok, true)
			testutil.AssertEqual(t, "activity", e.Activity, tt.expActivity)
		})
	}

	_, ok := npc.CurrentEntry(nil, 10)
	testutil.AssertEqual(t, "empty schedule", ok, false)
}

func TestSimulation_Spawn(t *testing.T) {
	tests := map[string]struct {
		role        string
		ints        []int
		expName     string
		expActivity string
		expGoals    []game.Goal
	}{
		"merchant": {
			role:        "merchant",
			ints:        []int{1},
			expName:     "Tobin",
			expActivity: "open_shop",
			expGoals:    []game.Goal{{ID: "merchant_goal_1", Description: "Expand the shop"}},
		},
		"unknown role uses defaults": {
			role:        "bard",
			ints:        []int{0},
			expName:     "Ash",
			expActivity: "work",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sim, st := newSimulation(t, &rng.Scripted{Ints: tt.ints})

			n := spawn(t, sim, tt.role)

			stored, ok := st.NPC(n.ID)
			if !ok {
				t.Fatalf("npc %s was not stored", n.ID)
			}
			if diff := cmp.Diff(n, stored); diff != "" {
				t.Errorf("stored npc (-want +got):\n%s", diff)
			}
			testutil.AssertEqual(t, "name", n.Name, tt.expName)
			testutil.AssertEqual(t, "role", n.Role, tt.role)
			testutil.AssertEqual(t, "activity", n.Activity, tt.expActivity)
			testutil.AssertEqual(t, "mood", n.Mood, npc.DefaultMood)
			if diff := cmp.Diff(tt.expGoals, n.Goals); diff != "" {
				t.Errorf("goals (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimulation_Populate(t *testing.T) {
	sim, st := newSimulation(t, &rng.Scripted{Ints: []int{0, 0, 0, 1, 1, 1, 0}})

	npcs, err := sim.Populate("Oakvale", game.Range{Min: 3, Max: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, n := range npcs {
		names = append(names, n.Role+":"+n.Name)
	}
	if diff := cmp.Diff([]string{"guard:Brann", "merchant:Tobin", "merchant:Mira"}, names); diff != "" {
		t.Errorf("spawned (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "stored", len(st.NPCIDs()), 3)
}

func TestSimulation_UpdateActivities(t *testing.T) {
	sim, st := newSimulation(t, &rng.Scripted{Ints: []int{0}})
	n := spawn(t, sim, "merchant")

	testutil.AssertEqual(t, "unchanged", len(sim.UpdateActivities()), 0)

	if _, err := st.AdvanceTime(4 * 60); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{n.ID}, sim.UpdateActivities()); diff != "" {
		t.Errorf("changed (-want +got):\n%s", diff)
	}

	got, _ := st.NPC(n.ID)
	testutil.AssertEqual(t, "activity", got.Activity, "lunch_break")
	testutil.AssertEqual(t, "location", got.Location, "tavern")
	testutil.AssertEqual(t, "mood", got.Mood, game.Mood("relaxed"))
}

func TestSimulation_UpdateMoods(t *testing.T) {
	sim, st := newSimulation(t, &rng.Scripted{
		Ints:   []int{0, 2, 9, 9},
		Floats: []float64{0.05, 0.01, 0.5, 0.01},
	})
	n := spawn(t, sim, "merchant")

	sim.UpdateMoods()
	got, _ := st.NPC(n.ID)
	testutil.AssertEqual(t, "mood", got.Mood, game.Mood("angry"))
	testutil.AssertEqual(t, "progress", got.Goals[0].Progress, 10)

	got.Goals[0].Progress = 95
	if err := st.UpsertNPC(got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sim.UpdateMoods()
	got, _ = st.NPC(n.ID)
	testutil.AssertEqual(t, "mood kept", got.Mood, game.Mood("angry"))
	testutil.AssertEqual(t, "progress capped", got.Goals[0].Progress, 100)
	testutil.AssertEqual(t, "completed", got.Goals[0].Completed, true)
	testutil.AssertEqual(t, "memories", len(got.Memories), 1)
	testutil.AssertEqual(t, "memory", got.Memories[0].Content, "Completed goal: Expand the shop")
}

func TestSimulation_RandomEvent(t *testing.T) {
	sim, st := newSimulation(t, &rng.Scripted{
		Ints:   []int{0, 0, 3},
		Floats: []float64{0.5, 0.1},
	})
	n := spawn(t, sim, "merchant")

	testutil.AssertEqual(t, "quiet", sim.RandomEvent(), "")
	testutil.AssertEqual(t, "eventful", sim.RandomEvent(), n.ID)

	got, _ := st.NPC(n.ID)
	testutil.AssertEqual(t, "mood", got.Mood, game.Mood("thoughtful"))
	testutil.AssertEqual(t, "memory", got.Memories[0].Type, "had_dream")
}

func TestSimulation_Interact(t *testing.T) {
	sim, st := newSimulation(t, &rng.Scripted{Ints: []int{0}})
	n := spawn(t, sim, "merchant")

	res, err := sim.Interact(n.ID, npc.Greet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "response", res.Response, "Welcome to my shop! See anything that catches your eye?")
	testutil.AssertEqual(t, "change", res.RelationshipChange, 1)
	testutil.AssertEqual(t, "relationship", res.Relationship, 1)

	for range 9 {
		if _, err := sim.Interact(n.ID, npc.Quest); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	res, err = sim.Interact(n.ID, npc.Greet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "familiar", res.Response, "Hello again, Tester. What brings you back?")

	for range 40 {
		if _, err := sim.Interact(n.ID, npc.Quest); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, _ := st.NPC(n.ID)
	testutil.AssertEqual(t, "clamped", got.Relationships[st.Player().ID], game.RelationshipMax)
	testutil.AssertEqual(t, "memory retention", len(got.Memories), game.MemoryRetention)

	_, err = sim.Interact("nobody", npc.Greet)
	if !errors.Is(err, game.ErrNPCNotFound) {
		t.Errorf("expected npc not found, got %v", err)
	}
}
