// Package npc simulates the daily lives of non-player characters and their
// relationship with the player.
package npc

import (
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

const (
	DefaultRole = "default"
	DefaultMood = game.Mood("neutral")

	MoodRerollChance = 0.1
	GoalChance       = 0.05
	GoalTarget       = 100
	EventChance      = 0.2
)

var (
	GoalStep = game.Range{Min: 1, Max: 10}

	// SettlementSize is how many NPCs a new settlement starts with.
	SettlementSize = game.Range{Min: 3, Max: 5}
)

// activityMoods maps what an NPC is doing onto how it feels.
var activityMoods = map[string]game.Mood{
	"open_shop":       "businesslike",
	"lunch_break":     "relaxed",
	"close_shop":      "tired",
	"socialize":       "happy",
	"rest":            "peaceful",
	"patrol_start":    "alert",
	"shift_change":    "relieved",
	"evening_patrol":  "vigilant",
	"night_watch":     "watchful",
	"work_start":      "focused",
	"work_end":        "satisfied",
	"research_start":  "curious",
	"teach":           "helpful",
	"study":           "concentrated",
	"prayer":          "reverent",
	"service":         "devout",
	"heal":            "compassionate",
	"visit_sick":      "concerned",
	"evening_service": "peaceful",
	"farm_work":       "industrious",
	"farm_end":        "accomplished",
	"family_time":     "content",
	"play":            "joyful",
	"school":          "attentive",
	"bedtime":         "sleepy",
	"morning_walk":    "refreshed",
	"storytelling":    "entertaining",
	"reflection":      "thoughtful",
}

var randomMoods = []game.Mood{"happy", "sad", "angry", "excited", "bored", "anxious", "calm", "curious"}

type lifeEvent struct {
	Content string
	Mood    game.Mood
}

var lifeEvents = map[string]lifeEvent{
	"found_item":      {"Found a mysterious object while going about their day", "curious"},
	"lost_item":       {"Realized they have misplaced something important", "worried"},
	"received_gift":   {"Received an unexpected present from someone", "happy"},
	"had_dream":       {"Had a vivid dream that felt significant", "thoughtful"},
	"met_stranger":    {"Encountered an unfamiliar face in town", "cautious"},
	"remembered_past": {"Recalled a long-forgotten memory", "nostalgic"},
	"felt_lonely":     {"Felt isolated despite being surrounded by people", "sad"},
	"felt_grateful":   {"Experienced deep appreciation for their life", "content"},
}

// MoodFor returns the mood an activity puts an NPC in.
func MoodFor(activity string) (game.Mood, bool) {
	m, ok := activityMoods[activity]
	return m, ok
}

// CurrentEntry picks the schedule entry in effect at hour: the latest entry
// starting at or before hour, or the first entry when none has started yet.
func CurrentEntry(schedule []game.ScheduleEntry, hour int) (game.ScheduleEntry, bool) {
	if len(schedule) == 0 {
		return game.ScheduleEntry{}, false
	}
	byHour := slices.Clone(schedule)
	slices.SortStableFunc(byHour, func(a, b game.ScheduleEntry) int { return b.Hour - a.Hour })
	for _, e := range byHour {
		if e.Hour <= hour {
			return e, true
		}
	}
	return schedule[0], true
}

type Simulation struct {
	store *game.Store
	dict  *game.Dictionary
	rng   rng.Source
}

func NewSimulation(store *game.Store, dict *game.Dictionary, src rng.Source) *Simulation {
	return &Simulation{store: store, dict: dict, rng: src}
}

// Spawn creates an NPC of role living in settlement. Unknown roles use the
// default role template.
func (s *Simulation) Spawn(role, settlement string) (game.NPC, error) {
	t := s.dict.Roles.Get(role)
	if t == nil {
		t = s.dict.Roles.Get(DefaultRole)
	}
	if t == nil {
		return game.NPC{}, game.Fail(game.ErrRoleNotFound, "no template for npc role %q", role)
	}

	n := game.NPC{
		ID:         uuid.New().String(),
		Name:       t.Names[rng.Pick(s.rng, len(t.Names))],
		Role:       role,
		Settlement: settlement,
		Attributes: game.DefaultAttributes(),
		Traits:     slices.Clone(t.Traits),
		Mood:       DefaultMood,
		Schedule:   slices.Clone(t.Schedule),
	}
	for i, g := range t.Goals {
		n.Goals = append(n.Goals, game.Goal{ID: fmt.Sprintf("%s_goal_%d", role, i+1), Description: g})
	}
	if e, ok := CurrentEntry(n.Schedule, s.store.Time().Hour); ok {
		n.Activity, n.Location = e.Activity, e.Location
	}

	if err := s.store.UpsertNPC(n); err != nil {
		return game.NPC{}, err
	}
	return n, nil
}

// Populate spawns between min and max NPCs of random roles in settlement.
func (s *Simulation) Populate(settlement string, count game.Range) ([]game.NPC, error) {
	var roles []string
	for id := range s.dict.Roles.GetAll() {
		if id != DefaultRole {
			roles = append(roles, id)
		}
	}
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}
	sort.Strings(roles)

	n := rng.Between(s.rng, count.Min, count.Max)
	out := make([]game.NPC, 0, n)
	for range n {
		npc, err := s.Spawn(roles[rng.Pick(s.rng, len(roles))], settlement)
		if err != nil {
			return out, err
		}
		out = append(out, npc)
	}
	return out, nil
}

// UpdateActivities moves every NPC to its scheduled activity for the
// current hour. NPCs already doing the right thing are left alone.
func (s *Simulation) UpdateActivities() []string {
	hour := s.store.Time().Hour
	return s.store.UpdateNPCs(func(npcs map[string]*game.NPC) []string {
		var changed []string
		for _, id := range sortedIDs(npcs) {
			n := npcs[id]
			e, ok := CurrentEntry(n.Schedule, hour)
			if !ok || (e.Activity == n.Activity && e.Location == n.Location) {
				continue
			}
			n.Activity, n.Location = e.Activity, e.Location
			if m, ok := MoodFor(e.Activity); ok {
				n.Mood = m
			}
			changed = append(changed, id)
		}
		return changed
	})
}

// UpdateMoods occasionally rerolls each NPC's mood and advances its goals.
// A completed goal is remembered.
func (s *Simulation) UpdateMoods() []string {
	now := s.store.Time()
	return s.store.UpdateNPCs(func(npcs map[string]*game.NPC) []string {
		var changed []string
		for _, id := range sortedIDs(npcs) {
			n := npcs[id]
			dirty := false
			if rng.Chance(s.rng, MoodRerollChance) {
				n.Mood = randomMoods[rng.Pick(s.rng, len(randomMoods))]
				dirty = true
			}
			for i := range n.Goals {
				g := &n.Goals[i]
				if g.Completed || !rng.Chance(s.rng, GoalChance) {
					continue
				}
				g.Progress = min(GoalTarget, g.Progress+rng.Between(s.rng, GoalStep.Min, GoalStep.Max))
				if g.Progress >= GoalTarget {
					g.Completed = true
					n.Remember(game.Memory{Time: now, Type: "goal_completed", Content: "Completed goal: " + g.Description})
				}
				dirty = true
			}
			if dirty {
				changed = append(changed, id)
			}
		}
		return changed
	})
}

// RandomEvent gives one NPC a small life event, changing its mood. It
// returns the NPC id, or "" when nothing happened.
func (s *Simulation) RandomEvent() string {
	if !rng.Chance(s.rng, EventChance) {
		return ""
	}
	now := s.store.Time()
	kinds := make([]string, 0, len(lifeEvents))
	for k := range lifeEvents {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	changed := s.store.UpdateNPCs(func(npcs map[string]*game.NPC) []string {
		if len(npcs) == 0 {
			return nil
		}
		ids := sortedIDs(npcs)
		id := ids[rng.Pick(s.rng, len(ids))]
		kind := kinds[rng.Pick(s.rng, len(kinds))]
		ev := lifeEvents[kind]

		n := npcs[id]
		n.Remember(game.Memory{Time: now, Type: kind, Content: ev.Content})
		n.Mood = ev.Mood
		return []string{id}
	})
	if len(changed) == 0 {
		return ""
	}
	return changed[0]
}

func sortedIDs(npcs map[string]*game.NPC) []string {
	ids := make([]string, 0, len(npcs))
	for id := range npcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
