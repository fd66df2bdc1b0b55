// Package exploration moves the player between regions and generates the
// encounters, discoveries and resources found along the way.
package exploration

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pixil98/go-saga/internal/combat"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/narrative"
	"github.com/pixil98/go-saga/internal/rng"
	"github.com/pixil98/go-saga/internal/world"
)

const (
	TravelMinutes   = 30
	LandmarkMinutes = 60
	GatherMinutes   = 30

	// EncounterRate is the encounter chance per point of region threat.
	EncounterRate   = 0.1
	NightMultiplier = 1.5

	EncounterFleeChance = 0.7
	ObserveChance       = 0.5
	// ObserveAmbushChance applies after a failed observation.
	ObserveAmbushChance = 0.5
	ArtifactChance      = 0.3

	GatherSkill = "wilderness_survival"
)

var (
	ObserveExperience = game.Range{Min: 5, Max: 14}
	GatherQuantity    = game.Range{Min: 1, Max: 3}
)

type Choice string

const (
	ChoiceFight   Choice = "fight"
	ChoiceFlee    Choice = "flee"
	ChoiceObserve Choice = "observe"
)

// Encounter is a pending meeting with a creature. It can be resolved once.
type Encounter struct {
	ID           string
	CreatureID   string
	CreatureName string
	RegionID     string
	Description  string
	Choices      []Choice
}

// CombatStarter opens fights for encounters.
type CombatStarter interface {
	Start(creatureID string) (combat.Session, error)
}

// Items hands out what the player finds. AddItem counts as a pickup, Grant
// does not.
type Items interface {
	AddItem(itemID string, qty int) (game.ItemInstance, error)
	Grant(itemID string, qty int) (game.ItemInstance, error)
}

type Journal interface {
	Record(kind narrative.Kind, data any) (game.JournalEntry, bool)
}

type Explorer struct {
	mu         sync.Mutex
	store      *game.Store
	dict       *game.Dictionary
	rng        rng.Source
	combat     CombatStarter
	items      Items
	tracker    game.ProgressTracker
	journal    Journal
	encounters map[string]Encounter
}

// NewExplorer creates an Explorer. tracker and journal may be nil.
func NewExplorer(store *game.Store, dict *game.Dictionary, src rng.Source, cs CombatStarter, items Items, tracker game.ProgressTracker, journal Journal) *Explorer {
	return &Explorer{
		store:      store,
		dict:       dict,
		rng:        src,
		combat:     cs,
		items:      items,
		tracker:    tracker,
		journal:    journal,
		encounters: make(map[string]Encounter),
	}
}

type TravelResult struct {
	Region    string
	Time      game.GameTime
	Encounter *Encounter
	Message   string
}

// Travel moves the player to a neighbor of the current region, spends the
// travel time and rolls for an encounter on arrival.
func (e *Explorer) Travel(regionID string) (TravelResult, error) {
	dest, err := e.dict.Region(regionID)
	if err != nil {
		return TravelResult{}, err
	}
	pl := e.store.Player()
	here, err := e.dict.Region(pl.Location)
	if err != nil {
		return TravelResult{}, err
	}
	if !slices.Contains(here.Neighbors, regionID) {
		return TravelResult{}, game.Fail(game.ErrNotAdjacent, "%s cannot be reached from %s", dest.Name, here.Name)
	}

	if err := e.store.UpdatePlayer(game.PlayerPatch{Location: &regionID}); err != nil {
		return TravelResult{}, err
	}
	e.store.Discover(game.DiscoveredRegion, regionID)
	now, err := e.store.AdvanceTime(TravelMinutes)
	if err != nil {
		return TravelResult{}, err
	}
	if e.tracker != nil {
		e.tracker.Track(game.LocationVisited{RegionID: regionID})
	}

	res := TravelResult{Region: regionID, Time: now, Message: fmt.Sprintf("You travel to %s.", dest.Name)}
	if enc, ok := e.rollEncounter(regionID, dest, now); ok {
		res.Encounter = &enc
		res.Message += " " + enc.Description
	}
	return res, nil
}

// EncounterChance is the probability of an encounter in a region with the
// given threat at time t.
func EncounterChance(threat int, t game.GameTime) float64 {
	p := float64(threat) * EncounterRate
	if t.IsNight() {
		p *= NightMultiplier
	}
	return p
}

func (e *Explorer) rollEncounter(regionID string, r *game.RegionTemplate, now game.GameTime) (Encounter, bool) {
	if !rng.Chance(e.rng, EncounterChance(r.ThreatLevel, now)) || len(r.SpawnableCreatureTypes) == 0 {
		return Encounter{}, false
	}
	creatureID := r.SpawnableCreatureTypes[rng.Pick(e.rng, len(r.SpawnableCreatureTypes))]
	c, err := e.dict.Creature(creatureID)
	if err != nil {
		return Encounter{}, false
	}

	enc := Encounter{
		ID:           uuid.New().String(),
		CreatureID:   creatureID,
		CreatureName: c.Name,
		RegionID:     regionID,
		Description:  fmt.Sprintf("You come across a %s in %s.", c.Name, r.Name),
		Choices:      []Choice{ChoiceFight, ChoiceFlee, ChoiceObserve},
	}

	e.mu.Lock()
	e.encounters[enc.ID] = enc
	e.mu.Unlock()
	return enc, true
}

// Encounters lists unresolved encounters ordered by id.
func (e *Explorer) Encounters() []Encounter {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Encounter, 0, len(e.encounters))
	for _, enc := range e.encounters {
		out = append(out, enc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type EncounterResult struct {
	Choice     Choice
	Escaped    bool
	Experience int
	// Combat is set when the encounter turned into a fight.
	Combat  *combat.Session
	Message string
}

// ResolveEncounter settles an encounter with the given choice. A resolved
// encounter is gone; a rejected choice leaves it pending.
func (e *Explorer) ResolveEncounter(encounterID string, choice Choice) (EncounterResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	enc, ok := e.encounters[encounterID]
	if !ok {
		return EncounterResult{}, game.Fail(game.ErrEncounterNotFound, "no such encounter")
	}
	if !slices.Contains(enc.Choices, choice) {
		return EncounterResult{}, game.Fail(game.ErrActionUnavailable, "%q is not a way to resolve this encounter", choice)
	}

	res := EncounterResult{Choice: choice}
	fight := false
	switch choice {
	case ChoiceFight:
		fight = true
		res.Message = fmt.Sprintf("You engage the %s!", enc.CreatureName)
	case ChoiceFlee:
		if rng.Chance(e.rng, EncounterFleeChance) {
			res.Escaped = true
			res.Message = fmt.Sprintf("You slip away from the %s.", enc.CreatureName)
		} else {
			fight = true
			res.Message = fmt.Sprintf("You fail to get away! The %s attacks!", enc.CreatureName)
		}
	case ChoiceObserve:
		if rng.Chance(e.rng, ObserveChance) {
			res.Experience = rng.Between(e.rng, ObserveExperience.Min, ObserveExperience.Max)
			if _, err := e.store.AddPlayerExperience(res.Experience); err != nil {
				return EncounterResult{}, err
			}
			res.Message = fmt.Sprintf("You watch the %s from a distance and learn its habits. You gain %d experience.", enc.CreatureName, res.Experience)
		} else {
			res.Message = fmt.Sprintf("The %s notices you watching.", enc.CreatureName)
			if rng.Chance(e.rng, ObserveAmbushChance) {
				fight = true
				res.Message += " It attacks!"
			}
		}
	}

	if fight {
		s, err := e.combat.Start(enc.CreatureID)
		if err != nil {
			return EncounterResult{}, err
		}
		res.Combat = &s
	}

	delete(e.encounters, encounterID)
	return res, nil
}

type LandmarkResult struct {
	LandmarkID string
	Found      *game.ItemInstance
	Message    string
}

// ExploreLandmark explores a landmark of the current region. There is a
// chance of finding the landmark's artifact.
func (e *Explorer) ExploreLandmark(landmarkID string) (LandmarkResult, error) {
	lm := e.dict.Landmarks.Get(landmarkID)
	if lm == nil {
		return LandmarkResult{}, game.Fail(game.ErrLandmarkNotFound, "landmark %q not found", landmarkID)
	}
	pl := e.store.Player()
	if lm.Region != pl.Location {
		return LandmarkResult{}, game.Fail(game.ErrNotAdjacent, "%s is not in this region", lm.Name)
	}

	e.store.Discover(game.DiscoveredLandmark, landmarkID)
	if e.journal != nil {
		e.journal.Record(narrative.LandmarkExplored, lm)
	}

	res := LandmarkResult{LandmarkID: landmarkID, Message: fmt.Sprintf("You explore %s.", lm.Name)}
	if lore := lm.Lore; lore != "" {
		res.Message += " " + lore
	}

	if lm.Artifact != "" && rng.Chance(e.rng, ArtifactChance) {
		inst, err := e.items.Grant(lm.Artifact, 1)
		if err != nil {
			return LandmarkResult{}, err
		}
		res.Found = &inst
		res.Message += fmt.Sprintf(" You find %s.", inst.Name)
		if e.tracker != nil {
			e.tracker.Track(game.ItemFound{ItemID: lm.Artifact})
		}
	}

	if _, err := e.store.AdvanceTime(LandmarkMinutes); err != nil {
		return LandmarkResult{}, err
	}
	return res, nil
}

type GatherResult struct {
	Item     game.ItemInstance
	Quantity int
	Message  string
}

// GatherResources collects one of the current region's resources. Survival
// skill and active world events scale the yield, which is never below one.
func (e *Explorer) GatherResources() (GatherResult, error) {
	pl := e.store.Player()
	r, err := e.dict.Region(pl.Location)
	if err != nil {
		return GatherResult{}, err
	}
	if len(r.Resources) == 0 {
		return GatherResult{}, game.Fail(game.ErrActionUnavailable, "there is nothing to gather in %s", r.Name)
	}

	resource := r.Resources[rng.Pick(e.rng, len(r.Resources))]
	base := rng.Between(e.rng, GatherQuantity.Min, GatherQuantity.Max)
	qty := GatherYield(base, pl.SkillLevel(GatherSkill), world.ResourceModifier(e.store.World()))

	inst, err := e.items.AddItem(resource, qty)
	if err != nil {
		return GatherResult{}, err
	}
	if _, err := e.store.AdvanceTime(GatherMinutes); err != nil {
		return GatherResult{}, err
	}
	return GatherResult{
		Item:     inst,
		Quantity: qty,
		Message:  fmt.Sprintf("You gather %d %s.", qty, inst.Name),
	}, nil
}

// GatherYield applies the survival skill and world event modifier to a base
// roll.
func GatherYield(base, skill int, modifier float64) int {
	v := float64(base) * (1 + 0.1*float64(skill)) * (1 + modifier)
	return max(1, int(math.Floor(v)))
}

// Interact reports that the player used an object in the world.
func (e *Explorer) Interact(objectID string) error {
	if objectID == "" {
		return game.Invariantf("interaction needs an object")
	}
	if e.tracker != nil {
		e.tracker.Track(game.ObjectInteracted{ObjectID: objectID})
	}
	return nil
}

type Neighbor struct {
	ID          string
	Name        string
	ThreatLevel int
	Discovered  bool
}

// Neighbors lists the regions reachable from the player's location.
func (e *Explorer) Neighbors() []Neighbor {
	pl := e.store.Player()
	here := e.dict.Regions.Get(pl.Location)
	if here == nil {
		return nil
	}
	var out []Neighbor
	for _, id := range here.Neighbors {
		r := e.dict.Regions.Get(id)
		if r == nil {
			continue
		}
		out = append(out, Neighbor{
			ID:          id,
			Name:        r.Name,
			ThreatLevel: r.ThreatLevel,
			Discovered:  slices.Contains(pl.DiscoveredRegions, id),
		})
	}
	return out
}

// Landmarks lists the landmark ids of the player's region, sorted.
func (e *Explorer) Landmarks() []string {
	loc := e.store.Player().Location
	var out []string
	for id, lm := range e.dict.Landmarks.GetAll() {
		if lm.Region == loc {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
