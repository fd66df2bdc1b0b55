package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-saga/internal/storage"
)

type EffectType string

const (
	EffectHeal   EffectType = "heal"
	EffectLore   EffectType = "lore"
	EffectDamage EffectType = "damage"
)

// EffectTemplate describes what using a consumable does.
type EffectTemplate struct {
	Type        EffectType `json:"type"`
	Amount      int        `json:"amount,omitempty"`
	Description string     `json:"description,omitempty"`
}

func (e *EffectTemplate) Validate() error {
	el := errors.NewErrorList()
	switch e.Type {
	case EffectHeal, EffectDamage:
		if e.Amount <= 0 {
			el.Add(fmt.Errorf("%s effect amount must be positive", e.Type))
		}
	case EffectLore:
	default:
		el.Add(fmt.Errorf("unknown effect type %q", e.Type))
	}
	return el.Err()
}

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Validate() error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("range %d-%d is invalid", r.Min, r.Max)
	}
	return nil
}

type LootEntry struct {
	Item     string  `json:"item"`
	Chance   float64 `json:"chance"`
	Quantity Range   `json:"quantity"`
}

// LootTable lists independent drop rolls plus a currency roll.
type LootTable struct {
	Entries  []LootEntry `json:"entries"`
	Currency *Range      `json:"currency,omitempty"`
}

func (l *LootTable) Validate() error {
	el := errors.NewErrorList()
	for i, e := range l.Entries {
		if e.Item == "" {
			el.Add(fmt.Errorf("entry %d: item is required", i))
		}
		if e.Chance < 0 || e.Chance > 1 {
			el.Add(fmt.Errorf("entry %d: chance must be within [0,1]", i))
		}
		if e.Quantity.Min < 1 {
			el.Add(fmt.Errorf("entry %d: minimum quantity must be at least 1", i))
		}
		el.Add(e.Quantity.Validate())
	}
	if l.Currency != nil {
		el.Add(l.Currency.Validate())
	}
	return el.Err()
}

type CreatureTemplate struct {
	Name           string                              `json:"name"`
	Description    string                              `json:"description,omitempty"`
	BaseAttributes Attributes                          `json:"base_attributes"`
	LootTable      storage.SmartIdentifier[*LootTable] `json:"loot_table"`
}

func (c *CreatureTemplate) Validate() error {
	el := errors.NewErrorList()
	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if c.BaseAttributes.Strength <= 0 {
		el.Add(fmt.Errorf("base strength must be positive"))
	}
	el.Add(c.LootTable.Validate())
	return el.Err()
}

type SkillTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	MaxLevel    int    `json:"max_level"`
	BaseXpCost  int    `json:"base_xp_cost"`
}

func (s *SkillTemplate) Validate() error {
	el := errors.NewErrorList()
	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if s.MaxLevel <= 0 {
		el.Add(fmt.Errorf("max_level must be positive"))
	}
	if s.BaseXpCost <= 0 {
		el.Add(fmt.Errorf("base_xp_cost must be positive"))
	}
	return el.Err()
}

type RegionTemplate struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description,omitempty"`
	ThreatLevel            int      `json:"threat_level"`
	InitialPopulation      int      `json:"initial_population,omitempty"`
	Neighbors              []string `json:"neighbors"`
	SpawnableCreatureTypes []string `json:"spawnable_creature_types,omitempty"`
	Resources              []string `json:"resources,omitempty"`
}

func (r *RegionTemplate) Validate() error {
	el := errors.NewErrorList()
	if r.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if r.ThreatLevel < 0 || r.ThreatLevel > 10 {
		el.Add(fmt.Errorf("threat_level must be within [0,10]"))
	}
	return el.Err()
}

type LandmarkTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Lore        string `json:"lore,omitempty"`
	Region      string `json:"region"`
	Artifact    string `json:"artifact,omitempty"`
}

func (l *LandmarkTemplate) Validate() error {
	el := errors.NewErrorList()
	if l.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if l.Region == "" {
		el.Add(fmt.Errorf("region is required"))
	}
	return el.Err()
}

type Recipe struct {
	Name           string         `json:"name"`
	Category       string         `json:"category,omitempty"`
	Ingredients    []ItemAmount   `json:"ingredients"`
	Outputs        []ItemAmount   `json:"outputs"`
	TimeRequired   int            `json:"time_required"`
	Experience     int            `json:"experience"`
	RequiredLevel  int            `json:"required_level,omitempty"`
	RequiredSkills map[string]int `json:"required_skills,omitempty"`
	ToolRequired   string         `json:"tool_required,omitempty"`
}

func (r *Recipe) Validate() error {
	el := errors.NewErrorList()
	if r.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(r.Ingredients) == 0 {
		el.Add(fmt.Errorf("at least one ingredient is required"))
	}
	if len(r.Outputs) == 0 {
		el.Add(fmt.Errorf("at least one output is required"))
	}
	for _, a := range r.Ingredients {
		el.Add(a.Validate())
	}
	for _, a := range r.Outputs {
		el.Add(a.Validate())
	}
	if r.TimeRequired < 0 {
		el.Add(fmt.Errorf("time_required must not be negative"))
	}
	return el.Err()
}

// RoleTemplate seeds NPCs of one role.
type RoleTemplate struct {
	Names    []string        `json:"names"`
	Schedule []ScheduleEntry `json:"schedule"`
	Goals    []string        `json:"goals,omitempty"`
	Traits   []string        `json:"traits,omitempty"`
}

func (r *RoleTemplate) Validate() error {
	el := errors.NewErrorList()
	if len(r.Names) == 0 {
		el.Add(fmt.Errorf("at least one name is required"))
	}
	if len(r.Schedule) == 0 {
		el.Add(fmt.Errorf("schedule must not be empty"))
	}
	for i, s := range r.Schedule {
		if s.Hour < 0 || s.Hour >= HoursPerDay {
			el.Add(fmt.Errorf("schedule entry %d: hour must be within [0,24)", i))
		}
		if s.Activity == "" {
			el.Add(fmt.Errorf("schedule entry %d: activity is required", i))
		}
	}
	return el.Err()
}

type WorldEventTemplate struct {
	Name               string  `json:"name"`
	Description        string  `json:"description,omitempty"`
	Type               string  `json:"type"`
	Duration           int     `json:"duration"`
	ResourceModifier   float64 `json:"resource_modifier,omitempty"`
	CorruptionIncrease float64 `json:"corruption_increase,omitempty"`
}

func (w *WorldEventTemplate) Validate() error {
	el := errors.NewErrorList()
	if w.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if w.Duration <= 0 {
		el.Add(fmt.Errorf("duration must be positive"))
	}
	if w.CorruptionIncrease < 0 || w.CorruptionIncrease > 1 {
		el.Add(fmt.Errorf("corruption_increase must be within [0,1]"))
	}
	return el.Err()
}
