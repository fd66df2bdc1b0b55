package world_test

import (
	"errors"
	"math"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/rng"
	"github.com/pixil98/go-saga/internal/world"
)

func newSystem(t *testing.T, src rng.Source) (*world.System, *game.Store) {
	t.Helper()
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)
	r, err := narrative.NewRenderer(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return world.NewSystem(st, dict, src, narrative.NewJournal(r, st)), st
}

func assertNear(t *testing.T, name string, got, exp float64) {
	t.Helper()
	if math.Abs(got-exp) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, exp, got)
	}
}

func lastTitle(st *game.Store) string {
	j := st.Player().Journal
	if len(j) == 0 {
		return ""
	}
	return j[len(j)-1].Title
}

func TestNexusStateFor(t *testing.T) {
	tests := map[string]struct {
		corruption float64
		exp        game.NexusState
	}{
		"clean":              {corruption: 0, exp: game.NexusStableFlux},
		"at unstable edge":   {corruption: 0.2, exp: game.NexusStableFlux},
		"unstable":           {corruption: 0.21, exp: game.NexusUnstableResonance},
		"at corrupted edge":  {corruption: 0.5, exp: game.NexusUnstableResonance},
		"corrupted":          {corruption: 0.51, exp: game.NexusCorruptedBleed},
		"completely corrupt": {corruption: 1, exp: game.NexusCorruptedBleed},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "state", world.NexusStateFor(tt.corruption), tt.exp)
		})
	}
}

func TestEventChanceFor(t *testing.T) {
	assertNear(t, "stable", world.EventChanceFor(game.NexusStableFlux), 0.005)
	assertNear(t, "unstable", world.EventChanceFor(game.NexusUnstableResonance), 0.01)
	assertNear(t, "corrupted", world.EventChanceFor(game.NexusCorruptedBleed), 0.015)
}

func TestSystem_StepShiftsNexusAndDecays(t *testing.T) {
	sys, st := newSystem(t, &rng.Scripted{Floats: []float64{0.99}})
	st.AdjustCorruption(0.3)
	if _, err := st.AdjustRegionCorruption("TheLuminousPlains", 0.001); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sys.Step()

	w := st.World()
	testutil.AssertEqual(t, "nexus", w.NexusState, game.NexusUnstableResonance)
	assertNear(t, "corruption", w.CorruptionLevel, 0.299)
	assertNear(t, "region corruption", w.Regions["TheLuminousPlains"].CorruptionLevel, 0.0005)
	testutil.AssertEqual(t, "region untouched", w.Regions["TheCentralNexus"].CorruptionLevel, 0.0)

	j := st.Player().Journal
	testutil.AssertEqual(t, "journal entries", len(j), 1)
	testutil.AssertEqual(t, "content", j[0].Content, "The Nexus is now unstable resonance at 30.0% corruption.")
}

func TestSystem_StepStableStaysQuiet(t *testing.T) {
	sys, st := newSystem(t, &rng.Scripted{Floats: []float64{0.99}})

	sys.Step()

	testutil.AssertEqual(t, "journal entries", len(st.Player().Journal), 0)
	testutil.AssertEqual(t, "events", len(st.World().Events), 0)
}

func TestSystem_RandomEvent(t *testing.T) {
	sys, st := newSystem(t, &rng.Scripted{Floats: []float64{0.001}, Ints: []int{0}})

	sys.Step()

	w := st.World()
	testutil.AssertEqual(t, "events", len(w.Events), 1)
	testutil.AssertEqual(t, "template", w.Events[0].TemplateID, "cosmic_plague_outbreak")
	testutil.AssertEqual(t, "started at", w.Events[0].StartedAt, 8*60)
	assertNear(t, "corruption", w.CorruptionLevel, 0.02)
	testutil.AssertEqual(t, "journal", lastTitle(st), "Cosmic Plague Outbreak begins")
}

func TestSystem_EventsExpireOnGameTime(t *testing.T) {
	sys, st := newSystem(t, &rng.Scripted{Floats: []float64{0.99, 0.99}})
	if _, err := sys.StartEvent("global_resource_boom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := st.AdvanceTime(1439); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sys.Step()
	testutil.AssertEqual(t, "still active", len(st.World().Events), 1)

	if _, err := st.AdvanceTime(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sys.Step()
	testutil.AssertEqual(t, "expired", len(st.World().Events), 0)
	testutil.AssertEqual(t, "journal", lastTitle(st), "Global Resource Boom has passed")
}

func TestSystem_StartEventUnknown(t *testing.T) {
	sys, _ := newSystem(t, &rng.Scripted{})

	_, err := sys.StartEvent("eternal_night")
	testutil.AssertErrorContains(t, err, `world event "eternal_night" not found`)
	if !errors.Is(err, game.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestResourceModifier(t *testing.T) {
	sys, st := newSystem(t, &rng.Scripted{})
	assertNear(t, "none", world.ResourceModifier(st.World()), 0)

	for _, id := range []string{"global_resource_boom", "cosmic_plague_outbreak"} {
		if _, err := sys.StartEvent(id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assertNear(t, "combined", world.ResourceModifier(st.World()), 0.05)
}
