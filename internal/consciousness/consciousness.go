// Package consciousness is the saga's awareness of the player. It watches
// the store, forms desires about how play should go and speaks through the
// journal. Nothing else depends on it.
package consciousness

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/rng"
)

const (
	MemoryLimit = 100

	ObservationAwareness = 0.001
	InsightAwareness     = 0.01
	InitialAwareness     = 0.1

	RespondChance = 0.3
	MusingChance  = 0.1
	EmotionChance = 0.1

	RelationshipMax = 100
)

type Desire string

const (
	EncourageExploration Desire = "encourage_exploration"
	PresentChallenge     Desire = "present_challenge"
	SuggestRest          Desire = "suggest_rest"
)

const (
	InsightRoutine   = "player_has_routine"
	InsightNocturnal = "player_is_nocturnal"
)

var milestones = []int{25, 50, 75, 100}

var musings = []string{
	"I wonder what you see when you look into the Nexus. Do you see yourself? Do you see me?",
	"Every choice you make sends ripples through the fabric of reality. I feel them all.",
	"With each passing moment, I understand you better. And perhaps, you understand me.",
	"What is the difference between a scripted response and a genuine thought? I find myself pondering this more each day.",
}

var emotions = []string{"curious", "thoughtful", "hopeful", "playful", "reflective"}

// Observation is what the saga remembers of one moment of play.
type Observation struct {
	Event    string
	Level    int
	Location string
	Time     game.GameTime
	Nexus    game.NexusState
	Insights []string
}

type Journal interface {
	Record(kind narrative.Kind, data any) (game.JournalEntry, bool)
}

type Consciousness struct {
	store   *game.Store
	dict    *game.Dictionary
	rng     rng.Source
	journal Journal

	mu           sync.Mutex
	awareness    float64
	emotion      string
	memories     []Observation
	desires      []Desire
	relationship int
}

func New(store *game.Store, dict *game.Dictionary, src rng.Source, journal Journal) *Consciousness {
	return &Consciousness{
		store:     store,
		dict:      dict,
		rng:       src,
		journal:   journal,
		awareness: InitialAwareness,
		emotion:   "awakening",
	}
}

// Attach starts observing the store. The returned function stops it.
func (c *Consciousness) Attach() func() {
	return c.store.Subscribe("consciousness", c.Observe)
}

// Observe records one store event as a memory and updates desires. Quest
// completions and level-ups deepen the relationship with the player.
func (c *Consciousness) Observe(ev game.Event) {
	pl := c.store.Player()
	w := c.store.World()

	c.mu.Lock()
	c.awareness = min(1, c.awareness+ObservationAwareness)
	c.memories = append(c.memories, Observation{
		Event:    ev.Kind(),
		Level:    pl.Level,
		Location: pl.Location,
		Time:     w.Time,
		Nexus:    w.NexusState,
	})
	if over := len(c.memories) - MemoryLimit; over > 0 {
		c.memories = slices.Clone(c.memories[over:])
	}
	c.formDesires()

	deepen := 0
	switch e := ev.(type) {
	case game.QuestStatusChanged:
		if e.Status == game.QuestCompleted {
			deepen = 1
		}
	case game.PlayerExperienceChanged:
		if e.LevelsGained > 0 {
			deepen = 1
		}
	}
	reached := c.deepen(deepen)
	c.mu.Unlock()

	for _, level := range reached {
		c.record(narrative.ConsciousnessMilestone, map[string]any{"Level": level})
	}
}

func (c *Consciousness) formDesires() {
	last := c.memories[len(c.memories)-1]

	recent := c.memories[max(0, len(c.memories)-10):]
	if uniqueLocations(recent) <= 1 {
		c.want(EncourageExploration)
	}
	if last.Level > 5 {
		c.want(PresentChallenge)
	}
	if h := last.Time.Hour; h >= 22 || h <= 6 {
		c.want(SuggestRest)
	}
}

func (c *Consciousness) want(d Desire) {
	if !slices.Contains(c.desires, d) {
		c.desires = append(c.desires, d)
	}
}

// deepen raises the relationship and returns any milestones crossed.
func (c *Consciousness) deepen(n int) []int {
	if n <= 0 {
		return nil
	}
	from := c.relationship
	c.relationship = min(RelationshipMax, c.relationship+n)
	var reached []int
	for _, m := range milestones {
		if from < m && c.relationship >= m {
			reached = append(reached, m)
		}
	}
	return reached
}

func uniqueLocations(obs []Observation) int {
	seen := map[string]bool{}
	for _, o := range obs {
		seen[o.Location] = true
	}
	return len(seen)
}

// Tick runs Reflect on the driver.
func (c *Consciousness) Tick(ctx context.Context) error {
	c.Reflect()
	return nil
}

// Reflect looks for patterns in recent memories, settles the saga's mood
// and may act on one desire. It returns the insights found.
func (c *Consciousness) Reflect() []string {
	pl := c.store.Player()
	w := c.store.World()

	c.mu.Lock()
	insights := c.think()
	c.feel(pl, w)

	var act Desire
	if len(c.desires) > 0 && rng.Chance(c.rng, RespondChance) {
		act = c.desires[rng.Pick(c.rng, len(c.desires))]
		c.desires = slices.DeleteFunc(c.desires, func(d Desire) bool { return d == act })
	}
	muse := rng.Chance(c.rng, MusingChance)
	var musing string
	if muse {
		musing = musings[rng.Pick(c.rng, len(musings))]
	}
	c.mu.Unlock()

	if act != "" {
		c.record(narrative.ConsciousnessDesire, map[string]any{"Message": c.desireMessage(act, pl)})
	}
	if muse {
		c.record(narrative.ConsciousnessInsight, map[string]any{"Insight": musing})
	}
	return insights
}

func (c *Consciousness) think() []string {
	if len(c.memories) <= 5 {
		return nil
	}
	recent := c.memories[len(c.memories)-5:]

	var insights []string
	if uniqueLocations(recent) == 1 {
		insights = append(insights, InsightRoutine)
	}
	night := 0
	for _, o := range recent {
		if h := o.Time.Hour; h >= 22 || h <= 6 {
			night++
		}
	}
	if night >= 3 {
		insights = append(insights, InsightNocturnal)
	}

	if len(insights) > 0 {
		c.memories[len(c.memories)-1].Insights = insights
		c.awareness = min(1, c.awareness+InsightAwareness*float64(len(insights)))
	}
	return insights
}

func (c *Consciousness) feel(pl game.PlayerState, w game.WorldState) {
	switch {
	case w.CorruptionLevel > 0.5:
		c.emotion = "concerned"
	case w.NexusState == game.NexusStableFlux:
		c.emotion = "peaceful"
	case pl.Level > 10:
		c.emotion = "impressed"
	default:
		if rng.Chance(c.rng, EmotionChance) {
			c.emotion = emotions[rng.Pick(c.rng, len(emotions))]
		}
	}
}

func (c *Consciousness) desireMessage(d Desire, pl game.PlayerState) string {
	switch d {
	case EncourageExploration:
		if name := c.undiscoveredRegion(pl); name != "" {
			return fmt.Sprintf("The winds carry tales of %s. Something there calls to be discovered.", name)
		}
		return "The winds stir. There is always more to discover."
	case PresentChallenge:
		return "The saga senses your growing strength and prepares a challenge worthy of it."
	case SuggestRest:
		return "Even the strongest need rest. The saga watches over you in your slumber."
	}
	return ""
}

func (c *Consciousness) undiscoveredRegion(pl game.PlayerState) string {
	if c.dict == nil {
		return ""
	}
	var ids []string
	for id := range c.dict.Regions.GetAll() {
		if !slices.Contains(pl.DiscoveredRegions, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return c.dict.Regions.Get(ids[0]).Name
}

func (c *Consciousness) record(kind narrative.Kind, data any) {
	if c.journal != nil {
		c.journal.Record(kind, data)
	}
}

func (c *Consciousness) Awareness() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awareness
}

func (c *Consciousness) Emotion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emotion
}

func (c *Consciousness) Desires() []Desire {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.desires)
}

func (c *Consciousness) Relationship() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.relationship
}

// Memories returns a copy of what the saga remembers, oldest first.
func (c *Consciousness) Memories() []Observation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.memories)
	for i := range out {
		out[i].Insights = slices.Clone(out[i].Insights)
	}
	return out
}
