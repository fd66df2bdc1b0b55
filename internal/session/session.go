// Package session wires a playable game: the store, every subsystem, and the
// periodic tasks that drive them.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pixil98/go-saga/internal/combat"
	"github.com/pixil98/go-saga/internal/consciousness"
	"github.com/pixil98/go-saga/internal/crafting"
	"github.com/pixil98/go-saga/internal/driver"
	"github.com/pixil98/go-saga/internal/exploration"
	"github.com/pixil98/go-saga/internal/forger"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/inventory"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/npc"
	"github.com/pixil98/go-saga/internal/quest"
	"github.com/pixil98/go-saga/internal/rng"
	"github.com/pixil98/go-saga/internal/save"
	"github.com/pixil98/go-saga/internal/world"
)

// Schedule sets how many driver ticks pass between runs of each task. Zero
// values take the defaults.
type Schedule struct {
	Clock          int
	NPCActivity    int
	NPCMood        int
	NPCEvents      int
	World          int
	Reflect        int
	AutoSave       int
	MinutesPerTick int
}

func DefaultSchedule() Schedule {
	return Schedule{
		Clock:          1,
		NPCActivity:    1,
		NPCMood:        5,
		NPCEvents:      10,
		World:          1,
		Reflect:        15,
		AutoSave:       150,
		MinutesPerTick: 1,
	}
}

func (s Schedule) withDefaults() Schedule {
	d := DefaultSchedule()
	pick := func(v, def int) int {
		if v > 0 {
			return v
		}
		return def
	}
	return Schedule{
		Clock:          pick(s.Clock, d.Clock),
		NPCActivity:    pick(s.NPCActivity, d.NPCActivity),
		NPCMood:        pick(s.NPCMood, d.NPCMood),
		NPCEvents:      pick(s.NPCEvents, d.NPCEvents),
		World:          pick(s.World, d.World),
		Reflect:        pick(s.Reflect, d.Reflect),
		AutoSave:       pick(s.AutoSave, d.AutoSave),
		MinutesPerTick: pick(s.MinutesPerTick, d.MinutesPerTick),
	}
}

type Options struct {
	Game game.NewGameOptions
	// State resumes an existing game instead of starting Game.
	State *game.GameState

	// Rng overrides the seeded source built from Seed.
	Rng  rng.Source
	Seed uint64

	Schedule Schedule
	// Settlement sizes the NPC population of each region in a new game.
	// A zero range spawns nobody.
	Settlement game.Range

	// SaveBackend enables saving. Autosave runs only when it is set.
	SaveBackend save.Backend
	Journal     map[narrative.Kind]narrative.EntryTemplate
	DriverOpts  []driver.GameDriverOpt

	// Detached leaves the consciousness out of the store's subscribers.
	Detached bool
}

type Session struct {
	Store  *game.Store
	Driver *driver.GameDriver
	Rng    rng.Source

	Journal       *narrative.Journal
	Inventory     *inventory.Ledger
	Quests        *quest.Ledger
	Combat        *combat.Manager
	Crafting      *crafting.Resolver
	Explorer      *exploration.Explorer
	World         *world.System
	NPCs          *npc.Simulation
	Consciousness *consciousness.Consciousness
	Forge         *forger.Forge
	Saves         *save.Manager

	detach []func()
}

// New builds a session over dict. The driver is not started.
func New(dict *game.Dictionary, opts Options) (*Session, error) {
	state := opts.State
	fresh := state == nil
	if fresh {
		g, err := game.NewGameState(dict, opts.Game)
		if err != nil {
			return nil, fmt.Errorf("creating game: %w", err)
		}
		state = g
	}

	src := opts.Rng
	if src == nil {
		src = rng.NewSeeded(opts.Seed)
	}

	renderer, err := narrative.NewRenderer(opts.Journal)
	if err != nil {
		return nil, fmt.Errorf("building journal templates: %w", err)
	}

	st := game.NewStore(state, dict.Skills)
	s := &Session{
		Store:  st,
		Driver: driver.NewGameDriver(opts.DriverOpts...),
		Rng:    src,
	}

	s.Journal = narrative.NewJournal(renderer, st)
	s.Inventory = inventory.NewLedger(st, dict, nil)
	s.Quests = quest.NewLedger(st, dict, s.Inventory, s.Journal)
	s.Inventory.SetTracker(s.Quests)
	s.Combat = combat.NewManager(st, dict, src, s.Inventory, s.Quests)
	s.Crafting = crafting.NewResolver(st, dict, src)
	s.Explorer = exploration.NewExplorer(st, dict, src, s.Combat, s.Inventory, s.Quests, s.Journal)
	s.World = world.NewSystem(st, dict, src, s.Journal)
	s.NPCs = npc.NewSimulation(st, dict, src)
	s.Consciousness = consciousness.New(st, dict, src, s.Journal)
	s.Forge = forger.NewForge(st, dict, s.Quests, s.Journal)
	if opts.SaveBackend != nil {
		s.Saves = save.NewManager(opts.SaveBackend, st)
	}

	if fresh && opts.Settlement.Max > 0 {
		if err := s.populate(dict, opts.Settlement); err != nil {
			return nil, err
		}
	}

	if !opts.Detached {
		s.detach = append(s.detach, s.Consciousness.Attach())
	}
	s.register(opts.Schedule.withDefaults())

	return s, nil
}

func (s *Session) populate(dict *game.Dictionary, size game.Range) error {
	var regions []string
	for id := range dict.Regions.GetAll() {
		regions = append(regions, id)
	}
	sort.Strings(regions)

	for _, id := range regions {
		if _, err := s.NPCs.Populate(id, size); err != nil {
			return fmt.Errorf("populating %s: %w", id, err)
		}
	}
	return nil
}

func (s *Session) register(sch Schedule) {
	d := s.Driver
	d.Register("clock", sch.Clock, driver.NewClockTask(s.Store, sch.MinutesPerTick))
	d.Register("npc_activity", sch.NPCActivity, driver.TaskFunc(func(context.Context) error {
		s.NPCs.UpdateActivities()
		return nil
	}))
	d.Register("npc_mood", sch.NPCMood, driver.TaskFunc(func(context.Context) error {
		s.NPCs.UpdateMoods()
		return nil
	}))
	d.Register("npc_events", sch.NPCEvents, driver.TaskFunc(func(ctx context.Context) error {
		if id := s.NPCs.RandomEvent(); id != "" {
			slog.DebugContext(ctx, "npc life event", "npc", id)
		}
		return nil
	}))
	d.Register("world", sch.World, s.World)
	d.Register("consciousness", sch.Reflect, s.Consciousness)
	if s.Saves != nil {
		d.Register("autosave", sch.AutoSave, save.AutoSaveTask{Manager: s.Saves})
	}
}

// Start runs the driver until ctx is done.
func (s *Session) Start(ctx context.Context) error {
	defer s.Close()
	return s.Driver.Start(ctx)
}

// Do runs fn on the driver goroutine and waits for it. Use it for player
// actions while the driver is running.
func (s *Session) Do(ctx context.Context, fn driver.Action) error {
	return s.Driver.Do(ctx, fn)
}

// Close detaches store subscribers.
func (s *Session) Close() {
	for _, fn := range s.detach {
		fn()
	}
	s.detach = nil
}
