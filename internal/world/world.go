// Package world advances the world simulation: the Nexus, corruption decay
// and world events.
package world

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/rng"
)

const (
	UnstableThreshold  = 0.2
	CorruptedThreshold = 0.5

	CorruptionDecay       = 0.001
	RegionCorruptionDecay = 0.0005

	// EventChance is the per-step chance of a world event in a stable Nexus.
	EventChance = 0.005

	DefaultEventDuration = game.MinutesPerDay
)

type Journal interface {
	Record(kind narrative.Kind, data any) (game.JournalEntry, bool)
}

// NexusShift is the journal data for a change of Nexus state.
type NexusShift struct {
	State      string
	Corruption float64
}

type System struct {
	store   *game.Store
	dict    *game.Dictionary
	rng     rng.Source
	journal Journal
}

// NewSystem creates a world System. journal may be nil.
func NewSystem(store *game.Store, dict *game.Dictionary, src rng.Source, journal Journal) *System {
	return &System{store: store, dict: dict, rng: src, journal: journal}
}

// NexusStateFor maps a corruption level onto a Nexus state.
func NexusStateFor(corruption float64) game.NexusState {
	switch {
	case corruption > CorruptedThreshold:
		return game.NexusCorruptedBleed
	case corruption > UnstableThreshold:
		return game.NexusUnstableResonance
	}
	return game.NexusStableFlux
}

// EventChanceFor scales EventChance by Nexus instability.
func EventChanceFor(state game.NexusState) float64 {
	switch state {
	case game.NexusUnstableResonance:
		return EventChance * 2
	case game.NexusCorruptedBleed:
		return EventChance * 3
	}
	return EventChance
}

// ResourceModifier sums the gathering modifiers of every active event.
func ResourceModifier(w game.WorldState) float64 {
	total := 0.0
	for _, e := range w.Events {
		total += e.ResourceModifier
	}
	return total
}

// Tick runs one world step.
func (s *System) Tick(ctx context.Context) error {
	s.Step()
	return nil
}

// Step settles the Nexus state, decays corruption, expires finished events
// and rolls for a new one.
func (s *System) Step() {
	s.UpdateNexus()

	if s.store.World().CorruptionLevel > 0 {
		s.store.AdjustCorruption(-CorruptionDecay)
	}
	s.store.DecayRegionCorruption(RegionCorruptionDecay)

	for _, e := range s.store.ExpireWorldEvents() {
		slog.Debug("world event ended", "event", e.TemplateID)
		s.record(narrative.WorldEventEnded, e)
	}

	if rng.Chance(s.rng, EventChanceFor(s.store.World().NexusState)) {
		s.randomEvent()
	}
}

// UpdateNexus moves the Nexus to the state its corruption calls for and
// reports whether it changed.
func (s *System) UpdateNexus() bool {
	w := s.store.World()
	next := NexusStateFor(w.CorruptionLevel)
	if next == w.NexusState {
		return false
	}
	if err := s.store.UpdateWorld(game.WorldPatch{NexusState: &next}); err != nil {
		slog.Warn("updating nexus state", "error", err)
		return false
	}
	s.record(narrative.NexusShift, NexusShift{State: string(next), Corruption: w.CorruptionLevel})
	return true
}

func (s *System) randomEvent() {
	ids := make([]string, 0)
	for id := range s.dict.WorldEvents.GetAll() {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	sort.Strings(ids)
	if _, err := s.StartEvent(ids[rng.Pick(s.rng, len(ids))]); err != nil {
		slog.Warn("starting world event", "error", err)
	}
}

// StartEvent begins the world event described by templateID now.
func (s *System) StartEvent(templateID string) (game.WorldEvent, error) {
	t := s.dict.WorldEvents.Get(templateID)
	if t == nil {
		return game.WorldEvent{}, game.Fail(game.ErrWorldEventNotFound, "world event %q not found", templateID)
	}
	duration := t.Duration
	if duration <= 0 {
		duration = DefaultEventDuration
	}

	e := s.store.AddWorldEvent(game.WorldEvent{
		TemplateID:       templateID,
		Name:             t.Name,
		Description:      t.Description,
		StartedAt:        s.store.Time().Elapsed(),
		Duration:         duration,
		ResourceModifier: t.ResourceModifier,
	})
	if t.CorruptionIncrease > 0 {
		s.store.AdjustCorruption(t.CorruptionIncrease)
	}
	slog.Debug("world event started", "event", templateID)
	s.record(narrative.WorldEventStarted, e)
	return e, nil
}

func (s *System) record(kind narrative.Kind, data any) {
	if s.journal != nil {
		s.journal.Record(kind, data)
	}
}
