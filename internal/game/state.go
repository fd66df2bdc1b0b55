package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

type Role string

const (
	RoleWanderer Role = "wanderer"
	RoleForger   Role = "forger"
)

func (r Role) Validate() error {
	switch r {
	case RoleWanderer, RoleForger:
		return nil
	}
	return fmt.Errorf("unknown role %q", r)
}

type NexusState string

const (
	NexusStableFlux        NexusState = "stable_flux"
	NexusUnstableResonance NexusState = "unstable_resonance"
	NexusCorruptedBleed    NexusState = "corrupted_bleed"
)

const (
	DefaultStartingLocation = "TheCentralNexus"
	DefaultRegionPopulation = 100
	DefaultPlayerHealth     = 100
)

type SkillState struct {
	Level      int  `json:"level"`
	Experience int  `json:"experience"`
	Unlocked   bool `json:"unlocked"`
}

type JournalEntry struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Time     GameTime `json:"time"`
}

type Achievement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rarity      string   `json:"rarity,omitempty"`
	UnlockedAt  GameTime `json:"unlocked_at"`
}

type PlayerState struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Role                Role                  `json:"role"`
	Level               int                   `json:"level"`
	Experience          int                   `json:"experience"`
	Attributes          Attributes            `json:"attributes"`
	Skills              map[string]SkillState `json:"skills"`
	Inventory           []ItemInstance        `json:"inventory"`
	Equipment           map[Slot]ItemInstance `json:"equipment"`
	Location            string                `json:"location"`
	Health              int                   `json:"health"`
	MaxHealth           int                   `json:"max_health"`
	Essence             int                   `json:"essence"`
	Journal             []JournalEntry        `json:"journal"`
	Achievements        []Achievement         `json:"achievements"`
	Quests              []QuestInstance       `json:"quests"`
	DiscoveredRegions   []string              `json:"discovered_regions,omitempty"`
	DiscoveredLandmarks []string              `json:"discovered_landmarks,omitempty"`
}

// SkillLevel returns the level of a skill, 0 when unknown.
func (p PlayerState) SkillLevel(id string) int {
	return p.Skills[id].Level
}

// ItemCount totals the quantity held across every instance of itemID.
func (p PlayerState) ItemCount(itemID string) int {
	n := 0
	for _, it := range p.Inventory {
		if it.ItemID == itemID {
			n += it.Quantity
		}
	}
	return n
}

// FindItem returns the inventory instance with the given instance id.
func (p PlayerState) FindItem(instanceID string) (ItemInstance, bool) {
	for _, it := range p.Inventory {
		if it.InstanceID == instanceID {
			return it, true
		}
	}
	return ItemInstance{}, false
}

// ActiveQuest returns the active instance of questID.
func (p PlayerState) ActiveQuest(questID string) (QuestInstance, bool) {
	for _, q := range p.Quests {
		if q.ID == questID && q.Status == QuestActive {
			return q, true
		}
	}
	return QuestInstance{}, false
}

// HasCompleted reports whether any instance of questID has completed.
func (p PlayerState) HasCompleted(questID string) bool {
	for _, q := range p.Quests {
		if q.ID == questID && q.Status == QuestCompleted {
			return true
		}
	}
	return false
}

func (p PlayerState) HasAchievement(id string) bool {
	return slices.ContainsFunc(p.Achievements, func(a Achievement) bool { return a.ID == id })
}

func (p PlayerState) clone() PlayerState {
	p.Skills = maps.Clone(p.Skills)
	p.Inventory = cloneItems(p.Inventory)
	if p.Equipment != nil {
		eq := make(map[Slot]ItemInstance, len(p.Equipment))
		for s, it := range p.Equipment {
			eq[s] = it.clone()
		}
		p.Equipment = eq
	}
	p.Journal = slices.Clone(p.Journal)
	p.Achievements = slices.Clone(p.Achievements)
	if p.Quests != nil {
		qs := make([]QuestInstance, len(p.Quests))
		for i, q := range p.Quests {
			qs[i] = q.clone()
		}
		p.Quests = qs
	}
	p.DiscoveredRegions = slices.Clone(p.DiscoveredRegions)
	p.DiscoveredLandmarks = slices.Clone(p.DiscoveredLandmarks)
	return p
}

func cloneItems(items []ItemInstance) []ItemInstance {
	if items == nil {
		return nil
	}
	out := make([]ItemInstance, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

type RegionState struct {
	Population      int      `json:"population"`
	CorruptionLevel float64  `json:"corruption_level"`
	Events          []string `json:"events,omitempty"`
}

// WorldEvent is an active world-wide event. StartedAt is in elapsed game minutes.
type WorldEvent struct {
	ID               string  `json:"id"`
	TemplateID       string  `json:"template_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	StartedAt        int     `json:"started_at"`
	Duration         int     `json:"duration"`
	ResourceModifier float64 `json:"resource_modifier,omitempty"`
}

// Expired reports whether the event has run its course at elapsed minute now.
func (e WorldEvent) Expired(now int) bool {
	return now >= e.StartedAt+e.Duration
}

type WorldState struct {
	Regions         map[string]RegionState `json:"regions"`
	Time            GameTime               `json:"time"`
	Events          []WorldEvent           `json:"events"`
	NexusState      NexusState             `json:"nexus_state"`
	CorruptionLevel float64                `json:"corruption_level"`
}

func (w WorldState) clone() WorldState {
	if w.Regions != nil {
		rs := make(map[string]RegionState, len(w.Regions))
		for id, r := range w.Regions {
			r.Events = slices.Clone(r.Events)
			rs[id] = r
		}
		w.Regions = rs
	}
	w.Events = slices.Clone(w.Events)
	return w
}

type ToolState struct {
	Level int `json:"level"`
}

type Intervention struct {
	ToolID  string   `json:"tool_id"`
	Target  string   `json:"target"`
	Message string   `json:"message"`
	Time    GameTime `json:"time"`
}

type Creation struct {
	ID     string   `json:"id"`
	ToolID string   `json:"tool_id"`
	Target string   `json:"target"`
	Time   GameTime `json:"time"`
}

type ForgerState struct {
	Essence       int                  `json:"essence"`
	Tools         map[string]ToolState `json:"tools"`
	Creations     []Creation           `json:"creations"`
	Interventions []Intervention       `json:"interventions"`
}

func (f ForgerState) clone() ForgerState {
	f.Tools = maps.Clone(f.Tools)
	f.Creations = slices.Clone(f.Creations)
	f.Interventions = slices.Clone(f.Interventions)
	return f
}

// GameState is the root aggregate. It is only mutated through a Store.
type GameState struct {
	Player   PlayerState    `json:"player"`
	World    WorldState     `json:"world"`
	NPCs     map[string]NPC `json:"npcs"`
	Forger   ForgerState    `json:"forger"`
	Settings Settings       `json:"settings"`
}

// Clone returns a deep copy that shares no mutable memory with g.
func (g *GameState) Clone() *GameState {
	c := &GameState{
		Player:   g.Player.clone(),
		World:    g.World.clone(),
		Forger:   g.Forger.clone(),
		Settings: g.Settings.clone(),
	}
	if g.NPCs != nil {
		c.NPCs = make(map[string]NPC, len(g.NPCs))
		for id, n := range g.NPCs {
			c.NPCs[id] = n.clone()
		}
	}
	return c
}

// Normalize replaces nil collections with empty ones so loaded and fresh
// states compare equal and can be written to safely.
func (g *GameState) Normalize() {
	if g.Player.Skills == nil {
		g.Player.Skills = map[string]SkillState{}
	}
	if g.Player.Inventory == nil {
		g.Player.Inventory = []ItemInstance{}
	}
	if g.Player.Equipment == nil {
		g.Player.Equipment = map[Slot]ItemInstance{}
	}
	if g.Player.Journal == nil {
		g.Player.Journal = []JournalEntry{}
	}
	if g.Player.Achievements == nil {
		g.Player.Achievements = []Achievement{}
	}
	if g.Player.Quests == nil {
		g.Player.Quests = []QuestInstance{}
	}
	if g.World.Regions == nil {
		g.World.Regions = map[string]RegionState{}
	}
	if g.World.Events == nil {
		g.World.Events = []WorldEvent{}
	}
	if g.World.NexusState == "" {
		g.World.NexusState = NexusStableFlux
	}
	if g.NPCs == nil {
		g.NPCs = map[string]NPC{}
	}
	if g.Forger.Tools == nil {
		g.Forger.Tools = map[string]ToolState{}
	}
	if g.Forger.Creations == nil {
		g.Forger.Creations = []Creation{}
	}
	if g.Forger.Interventions == nil {
		g.Forger.Interventions = []Intervention{}
	}
}

type NewGameOptions struct {
	PlayerName    string
	Role          Role
	StartLocation string
	// ForgerEssence seeds the forger pool; ignored for wanderers.
	ForgerEssence int
}

// NewGameState builds the state for a fresh session from the dictionary's
// skills and regions.
func NewGameState(dict *Dictionary, opts NewGameOptions) (*GameState, error) {
	if opts.Role == "" {
		opts.Role = RoleWanderer
	}
	if err := opts.Role.Validate(); err != nil {
		return nil, Invariantf("%v", err)
	}
	if opts.PlayerName == "" {
		opts.PlayerName = "Wanderer"
	}
	if opts.StartLocation == "" {
		opts.StartLocation = DefaultStartingLocation
	}
	if dict.Regions.Get(opts.StartLocation) == nil {
		return nil, Fail(ErrRegionNotFound, "unknown starting region %q", opts.StartLocation)
	}

	g := &GameState{
		Player: PlayerState{
			ID:         uuid.New().String(),
			Name:       opts.PlayerName,
			Role:       opts.Role,
			Level:      1,
			Attributes: DefaultAttributes(),
			Location:   opts.StartLocation,
			Health:     DefaultPlayerHealth,
			MaxHealth:  DefaultPlayerHealth,
		},
		World: WorldState{
			Time:       StartTime(),
			NexusState: NexusStableFlux,
		},
		Settings: DefaultSettings(),
	}
	g.Normalize()

	for id := range dict.Skills.GetAll() {
		g.Player.Skills[id] = SkillState{}
	}

	for id, r := range dict.Regions.GetAll() {
		pop := r.InitialPopulation
		if pop == 0 {
			pop = DefaultRegionPopulation
		}
		g.World.Regions[id] = RegionState{Population: pop}
	}

	g.Player.DiscoveredRegions = []string{opts.StartLocation}

	if opts.Role == RoleForger {
		g.Forger.Essence = opts.ForgerEssence
	}

	return g, nil
}
