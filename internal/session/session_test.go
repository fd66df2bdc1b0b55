package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/crafting"
	"github.com/pixil98/go-saga/internal/driver"
	"github.com/pixil98/go-saga/internal/exploration"
	"github.com/pixil98/go-saga/internal/forger"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
	"github.com/pixil98/go-saga/internal/save"
	"github.com/pixil98/go-saga/internal/session"
)

func newSession(t *testing.T, opts session.Options) *session.Session {
	t.Helper()
	s, err := session.New(gametest.Dictionary(t), opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func tick(t *testing.T, s *session.Session, n int) {
	t.Helper()
	for range n {
		if err := s.Driver.Tick(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		opts   session.Options
		expErr error
		check  func(t *testing.T, s *session.Session)
	}{
		"populates every region": {
			opts: session.Options{Seed: 7, Settlement: game.Range{Min: 1, Max: 1}},
			check: func(t *testing.T, s *session.Session) {
				testutil.AssertEqual(t, "npcs", len(s.Store.NPCIDs()), 3)
				testutil.AssertEqual(t, "role", s.Store.Player().Role, game.RoleWanderer)
				testutil.AssertEqual(t, "saves", s.Saves == nil, true)
			},
		},
		"empty settlement": {
			opts: session.Options{Seed: 7},
			check: func(t *testing.T, s *session.Session) {
				testutil.AssertEqual(t, "npcs", len(s.Store.NPCIDs()), 0)
			},
		},
		"resumed state is not repopulated": {
			opts: func() session.Options {
				g, err := game.NewGameState(gametest.Dictionary(t), game.NewGameOptions{PlayerName: "Old", Role: game.RoleForger, ForgerEssence: 40})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return session.Options{State: g, Settlement: game.Range{Min: 2, Max: 2}}
			}(),
			check: func(t *testing.T, s *session.Session) {
				testutil.AssertEqual(t, "npcs", len(s.Store.NPCIDs()), 0)
				testutil.AssertEqual(t, "name", s.Store.Player().Name, "Old")
				testutil.AssertEqual(t, "forger essence", s.Store.Forger().Essence, 40)
			},
		},
		"unknown start region": {
			opts:   session.Options{Game: game.NewGameOptions{StartLocation: "Atlantis"}},
			expErr: game.ErrRegionNotFound,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := session.New(gametest.Dictionary(t), tt.opts)
			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected %v, got %v", tt.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer s.Close()
			tt.check(t, s)
		})
	}
}

func TestSession_Ticks(t *testing.T) {
	s := newSession(t, session.Options{
		Seed:       3,
		Settlement: game.Range{Min: 1, Max: 1},
		Schedule:   session.Schedule{MinutesPerTick: 10},
	})

	tick(t, s, 6)
	now := s.Store.Time()
	testutil.AssertEqual(t, "hour", now.Hour, 9)
	testutil.AssertEqual(t, "minute", now.Minute, 0)
	testutil.AssertEqual(t, "observed", len(s.Consciousness.Memories()) > 0, true)

	for _, id := range s.Store.NPCIDs() {
		n, _ := s.Store.NPC(id)
		if n.Activity == "" {
			t.Errorf("npc %s has no activity after ticking", id)
		}
	}
}

func TestSession_Detached(t *testing.T) {
	s := newSession(t, session.Options{Seed: 3, Detached: true})
	tick(t, s, 3)
	testutil.AssertEqual(t, "observed", len(s.Consciousness.Memories()), 0)
}

func TestSession_AutoSave(t *testing.T) {
	backend, err := save.NewFileStore(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := newSession(t, session.Options{
		Seed:        3,
		SaveBackend: backend,
		Schedule:    session.Schedule{AutoSave: 4},
	})

	tick(t, s, 9)
	saves, err := s.Saves.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "saves", len(saves), 2)
	testutil.AssertEqual(t, "name", saves[0].Name, save.AutoSaveName)
}

func TestSession_ForgerToolIsJournaled(t *testing.T) {
	s := newSession(t, session.Options{
		Seed: 3,
		Game: game.NewGameOptions{Role: game.RoleForger, ForgerEssence: 100},
	})

	if _, err := s.Forge.UseTool("nexus_analyzer", forger.TargetNexus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "interventions", len(s.Store.Forger().Interventions), 1)
	testutil.AssertEqual(t, "journal", len(s.Store.Player().Journal), 1)
}

func TestSession_DoWhileRunning(t *testing.T) {
	s := newSession(t, session.Options{
		Seed:       3,
		DriverOpts: []driver.GameDriverOpt{driver.WithTickLength(5 * time.Millisecond)},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	var res exploration.TravelResult
	err := s.Do(ctx, func(context.Context) error {
		var err error
		res, err = s.Explorer.Travel("TheLuminousPlains")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "region", res.Region, "TheLuminousPlains")

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "location", s.Store.Player().Location, "TheLuminousPlains")
}

func TestSession_ShippedContentProgression(t *testing.T) {
	dict := gametest.Load(t, "../../data")
	s, err := session.New(dict, session.Options{Seed: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	must := func(step string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step, err)
		}
	}
	exploreUntilFound := func(landmark string) {
		t.Helper()
		for range 100 {
			res, err := s.Explorer.ExploreLandmark(landmark)
			must("explore "+landmark, err)
			if res.Found != nil {
				return
			}
		}
		t.Fatalf("never found the artifact of %s", landmark)
	}
	travel := func(region string) {
		t.Helper()
		_, err := s.Explorer.Travel(region)
		must("travel to "+region, err)
	}

	_, err = s.Quests.Accept("quest_ancient_tablet")
	if !errors.Is(err, game.ErrQuestPrerequisites) {
		t.Fatalf("expected %v, got %v", game.ErrQuestPrerequisites, err)
	}

	// Soul resonance comes from listening in the Reaches.
	_, err = s.Quests.Accept("quest_whispering_echoes")
	must("accept echoes", err)
	travel("TheWhisperingReaches")
	must("listen", s.Explorer.Interact("whispering_stones"))
	testutil.AssertEqual(t, "echoes completed", s.Store.Player().HasCompleted("quest_whispering_echoes"), true)
	testutil.AssertEqual(t, "soul resonance", s.Store.Player().SkillLevel("soul_resonance"), 3)

	_, err = s.Quests.Accept("quest_ancient_tablet")
	must("accept tablet", err)
	exploreUntilFound("whispering_forest_grove")
	must("study", s.Explorer.Interact("library_research_table"))
	pl := s.Store.Player()
	testutil.AssertEqual(t, "tablet completed", pl.HasCompleted("quest_ancient_tablet"), true)
	testutil.AssertEqual(t, "cosmic insight", pl.Skills["cosmic_insight"].Experience, 20)

	// The hammer waits at the forge in the peaks; training comes from crafting.
	travel("TheCentralNexus")
	travel("TheShatteredPeaks")
	exploreUntilFound("abandoned_forge")
	gametest.Give(t, dict, s.Store, "iron_ingot", 15)
	gametest.Give(t, dict, s.Store, "wood", 6)
	for range 6 {
		_, err := s.Crafting.Craft("craft_iron_sword")
		must("craft sword", err)
	}
	testutil.AssertEqual(t, "crafting", s.Store.Player().SkillLevel(crafting.CraftingSkill), 1)

	_, err = s.Crafting.Craft("craft_iron_helm")
	must("craft helm", err)
	counts := gametest.Counts(s.Store.Player())
	testutil.AssertEqual(t, "helm", counts["iron_helm"], 1)
	testutil.AssertEqual(t, "hammer kept", counts["smithing_hammer"], 1)
}
