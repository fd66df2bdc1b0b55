// Package forger implements the Forger role's tools. Each tool carries one
// Effect variant describing what it does to the world.
package forger

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/narrative"
)

// UpgradeCostPerLevel is the forger essence charged per level reached.
const UpgradeCostPerLevel = 20

// UpgradeDiscount is the fraction of a tool's essence cost kept per level.
const UpgradeDiscount = 0.9

type Target string

const (
	TargetNexus  Target = "nexus"
	TargetRegion Target = "region"
)

// Effect is what using a tool does. The variants below are the only
// implementations.
type Effect interface {
	isEffect()
}

// Analysis reports on the target without changing it.
type Analysis struct{}

// Intervention lowers world corruption. Achievement unlocks once the Nexus
// is fully clean.
type Intervention struct {
	CorruptionReduction float64
	Achievement         game.Achievement
}

// Purification cleanses the region the player stands in.
type Purification struct {
	RegionCorruptionReduction float64
	Experience                int
}

// Creation shapes something new and returns essence to the forger.
type Creation struct {
	EssenceGain int
	Achievement game.Achievement
}

// Temporal pushes the clock forward.
type Temporal struct {
	Minutes    int
	Experience int
}

func (Analysis) isEffect()     {}
func (Intervention) isEffect() {}
func (Purification) isEffect() {}
func (Creation) isEffect()     {}
func (Temporal) isEffect()     {}

type Tool struct {
	ID          string
	Name        string
	PowerLevel  int
	EssenceCost int
	Effect      Effect
}

// DefaultTools returns the forger's tool set keyed by id.
func DefaultTools() map[string]Tool {
	return map[string]Tool{
		"nexus_analyzer": {
			ID: "nexus_analyzer", Name: "Nexus Analyzer", PowerLevel: 1, EssenceCost: 5,
			Effect: Analysis{},
		},
		"stability_injector": {
			ID: "stability_injector", Name: "Stability Injector", PowerLevel: 2, EssenceCost: 15,
			Effect: Intervention{
				CorruptionReduction: 0.05,
				Achievement: game.Achievement{
					ID:          "pure_nexus",
					Name:        "Pure Nexus",
					Description: "Purified the Nexus completely",
					Rarity:      "rare",
				},
			},
		},
		"corruption_purifier": {
			ID: "corruption_purifier", Name: "Corruption Purifier", PowerLevel: 3, EssenceCost: 25,
			Effect: Purification{RegionCorruptionReduction: 0.1, Experience: 50},
		},
		"temporal_weaver": {
			ID: "temporal_weaver", Name: "Temporal Weaver", PowerLevel: 4, EssenceCost: 40,
			Effect: Temporal{Minutes: 120, Experience: 75},
		},
		"dimensional_shaper": {
			ID: "dimensional_shaper", Name: "Dimensional Shaper", PowerLevel: 5, EssenceCost: 50,
			Effect: Creation{
				EssenceGain: 10,
				Achievement: game.Achievement{
					ID:          "first_creation",
					Name:        "First Creation",
					Description: "Shaped something new with a dimensional tool",
					Rarity:      "uncommon",
				},
			},
		},
	}
}

// accepts reports whether an effect can be aimed at t.
func accepts(e Effect, t Target) bool {
	switch e.(type) {
	case Intervention:
		return t == TargetNexus
	case Purification:
		return t == TargetRegion
	}
	return t == TargetNexus || t == TargetRegion
}

// Cost is a tool's essence cost at the given upgrade level.
func Cost(tool Tool, level int) int {
	if level <= 1 {
		return tool.EssenceCost
	}
	return max(1, int(math.Floor(float64(tool.EssenceCost)*math.Pow(UpgradeDiscount, float64(level-1)))))
}

type Journal interface {
	Record(kind narrative.Kind, data any) (game.JournalEntry, bool)
}

// InterventionEntry is the journal data for a tool use.
type InterventionEntry struct {
	Tool    string
	Message string
}

type Result struct {
	Tool             Tool
	Target           Target
	Message          string
	EssenceCost      int
	EssenceRemaining int
}

type Upgrade struct {
	Tool  Tool
	Level int
	Cost  int
}

type Forge struct {
	store   *game.Store
	dict    *game.Dictionary
	tools   map[string]Tool
	tracker game.ProgressTracker
	journal Journal
}

// NewForge creates a Forge with the default tools. tracker and journal may
// be nil.
func NewForge(store *game.Store, dict *game.Dictionary, tracker game.ProgressTracker, journal Journal) *Forge {
	return &Forge{
		store:   store,
		dict:    dict,
		tools:   DefaultTools(),
		tracker: tracker,
		journal: journal,
	}
}

func (f *Forge) requireForger(action string) error {
	if f.store.Player().Role != game.RoleForger {
		return game.Fail(game.ErrWrongRole, "only a forger can %s", action)
	}
	return nil
}

func (f *Forge) tool(id string) (Tool, error) {
	t, ok := f.tools[id]
	if !ok {
		return Tool{}, game.Fail(game.ErrToolNotFound, "there is no tool called %q", id)
	}
	return t, nil
}

func (f *Forge) level(id string) int {
	if ts, ok := f.store.Forger().Tools[id]; ok && ts.Level > 0 {
		return ts.Level
	}
	return 1
}

// Tools lists the tools as upgraded so far, weakest first. Wanderers have
// none.
func (f *Forge) Tools() []Tool {
	if f.store.Player().Role != game.RoleForger {
		return []Tool{}
	}
	out := make([]Tool, 0, len(f.tools))
	for _, t := range f.tools {
		lvl := f.level(t.ID)
		t.PowerLevel += lvl - 1
		t.EssenceCost = Cost(t, lvl)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PowerLevel != out[j].PowerLevel {
			return out[i].PowerLevel < out[j].PowerLevel
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UseTool spends forger essence to apply a tool's effect to target.
func (f *Forge) UseTool(toolID string, target Target) (Result, error) {
	tool, err := f.tool(toolID)
	if err != nil {
		return Result{}, err
	}
	if err := f.requireForger("use " + tool.Name); err != nil {
		return Result{}, err
	}
	if !accepts(tool.Effect, target) {
		return Result{}, game.Fail(game.ErrActionUnavailable, "%s cannot be used on the %s", tool.Name, target)
	}

	cost := Cost(tool, f.level(toolID))
	if _, err := f.store.AddForgerEssence(-cost); err != nil {
		return Result{}, err
	}

	msg, err := f.apply(tool, target)
	if err != nil {
		// Refund; the target was checked but the store refused the change.
		if _, rerr := f.store.AddForgerEssence(cost); rerr != nil {
			slog.Error("refunding forger essence", "tool", toolID, "error", rerr)
		}
		return Result{}, err
	}
	msg = fmt.Sprintf("Using %s: %s", tool.Name, msg)

	f.store.AddIntervention(game.Intervention{ToolID: toolID, Target: string(target), Message: msg})
	if f.tracker != nil {
		f.tracker.Track(game.ForgerToolUsed{ToolID: toolID})
	}
	if f.journal != nil {
		f.journal.Record(narrative.ForgerIntervention, InterventionEntry{Tool: tool.Name, Message: msg})
	}
	slog.Debug("forger tool used", "tool", toolID, "target", target)

	return Result{
		Tool:             tool,
		Target:           target,
		Message:          msg,
		EssenceCost:      cost,
		EssenceRemaining: f.store.Forger().Essence,
	}, nil
}

func (f *Forge) apply(tool Tool, target Target) (string, error) {
	switch e := tool.Effect.(type) {
	case Analysis:
		return f.analyze(target)

	case Intervention:
		level := f.store.AdjustCorruption(-e.CorruptionReduction)
		if level == 0 {
			f.store.AddAchievement(e.Achievement)
		}
		return fmt.Sprintf("The Nexus steadies. Corruption falls by %.0f%%.", e.CorruptionReduction*100), nil

	case Purification:
		loc := f.store.Player().Location
		region, err := f.dict.Region(loc)
		if err != nil {
			return "", err
		}
		if _, err := f.store.AdjustRegionCorruption(loc, -e.RegionCorruptionReduction); err != nil {
			return "", err
		}
		if _, err := f.store.AddPlayerExperience(e.Experience); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is purified. Corruption falls by %.0f%%.", region.Name, e.RegionCorruptionReduction*100), nil

	case Creation:
		if _, err := f.store.AddForgerEssence(e.EssenceGain); err != nil {
			return "", err
		}
		f.store.AddCreation(game.Creation{ToolID: tool.ID, Target: string(target)})
		f.store.AddAchievement(e.Achievement)
		return "Creation succeeds. Creative energy flows back into you.", nil

	case Temporal:
		if _, err := f.store.AdvanceTime(e.Minutes); err != nil {
			return "", err
		}
		if _, err := f.store.AddPlayerExperience(e.Experience); err != nil {
			return "", err
		}
		return fmt.Sprintf("The flow of time bends. %d minutes pass in an instant.", e.Minutes), nil
	}
	return "", game.Invariantf("tool %q has no effect", tool.ID)
}

func (f *Forge) analyze(target Target) (string, error) {
	w := f.store.World()
	if target == TargetNexus {
		return fmt.Sprintf("Nexus analysis: %s, corruption %.1f%%.",
			narrative.DisplayName(string(w.NexusState)), w.CorruptionLevel*100), nil
	}

	loc := f.store.Player().Location
	region, err := f.dict.Region(loc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Region analysis: %s, threat level %d, corruption %.1f%%.",
		region.Name, region.ThreatLevel, w.Regions[loc].CorruptionLevel*100), nil
}

// GenerateEssence adds to the forger essence pool and returns the new total.
func (f *Forge) GenerateEssence(amount int) (int, error) {
	if amount <= 0 {
		return 0, game.Invariantf("essence amount must be positive, got %d", amount)
	}
	if err := f.requireForger("channel essence"); err != nil {
		return 0, err
	}
	return f.store.AddForgerEssence(amount)
}

// UpgradeTool raises a tool one level for UpgradeCostPerLevel times the new
// level in forger essence. Upgraded tools grow stronger and cheaper to use.
func (f *Forge) UpgradeTool(toolID string) (Upgrade, error) {
	tool, err := f.tool(toolID)
	if err != nil {
		return Upgrade{}, err
	}
	if err := f.requireForger("upgrade " + tool.Name); err != nil {
		return Upgrade{}, err
	}

	next := f.level(toolID) + 1
	cost := UpgradeCostPerLevel * next
	if _, err := f.store.AddForgerEssence(-cost); err != nil {
		return Upgrade{}, err
	}
	if err := f.store.SetToolLevel(toolID, next); err != nil {
		return Upgrade{}, err
	}

	tool.PowerLevel += next - 1
	tool.EssenceCost = Cost(tool, next)
	return Upgrade{Tool: tool, Level: next, Cost: cost}, nil
}
