package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

type QuestType string

const (
	QuestTypeMain        QuestType = "main"
	QuestTypeExploration QuestType = "exploration"
	QuestTypeGathering   QuestType = "gathering"
	QuestTypeCombat      QuestType = "combat"
	QuestTypeLore        QuestType = "lore"
	QuestTypeForger      QuestType = "forger"
)

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

type ObjectiveType string

const (
	ObjectiveGatherItem       ObjectiveType = "gather_item"
	ObjectiveDefeatEnemy      ObjectiveType = "defeat_enemy"
	ObjectiveVisitLocation    ObjectiveType = "visit_location"
	ObjectiveFindItem         ObjectiveType = "find_item"
	ObjectiveUseForgerTool    ObjectiveType = "use_forger_tool"
	ObjectiveInteractWithItem ObjectiveType = "interact_with_object"
)

func (t ObjectiveType) Validate() error {
	switch t {
	case ObjectiveGatherItem, ObjectiveDefeatEnemy, ObjectiveVisitLocation,
		ObjectiveFindItem, ObjectiveUseForgerTool, ObjectiveInteractWithItem:
		return nil
	}
	return fmt.Errorf("unknown objective type %q", t)
}

// Counted objective types accumulate toward a required quantity; all others
// complete on the first matching progress.
func (t ObjectiveType) Counted() bool {
	return t == ObjectiveGatherItem || t == ObjectiveDefeatEnemy
}

type ObjectiveTemplate struct {
	ID               string        `json:"id"`
	Description      string        `json:"description"`
	Type             ObjectiveType `json:"type"`
	Target           string        `json:"target,omitempty"`
	RequiredQuantity int           `json:"required_quantity,omitempty"`
}

type Rewards struct {
	Experience      int            `json:"experience,omitempty"`
	Essence         int            `json:"essence,omitempty"`
	Items           []ItemAmount   `json:"items,omitempty"`
	SkillExperience map[string]int `json:"skill_experience,omitempty"`
	ForgerEssence   int            `json:"forger_essence,omitempty"`
}

func (r Rewards) clone() Rewards {
	r.Items = slices.Clone(r.Items)
	r.SkillExperience = maps.Clone(r.SkillExperience)
	return r
}

type Prerequisites struct {
	Level  int            `json:"level,omitempty"`
	Skills map[string]int `json:"skills,omitempty"`
	Role   Role           `json:"role,omitempty"`
	Quests []string       `json:"quests,omitempty"`
}

type QuestTemplate struct {
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Type          QuestType           `json:"type"`
	Objectives    []ObjectiveTemplate `json:"objectives"`
	Rewards       Rewards             `json:"rewards"`
	Prerequisites Prerequisites       `json:"prerequisites,omitempty"`
}

func (q *QuestTemplate) Validate() error {
	el := errors.NewErrorList()
	if q.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(q.Objectives) == 0 {
		el.Add(fmt.Errorf("at least one objective is required"))
	}
	seen := map[string]bool{}
	for i, o := range q.Objectives {
		if o.ID == "" {
			el.Add(fmt.Errorf("objective %d: id is required", i))
		}
		if seen[o.ID] {
			el.Add(fmt.Errorf("objective %d: duplicate id %q", i, o.ID))
		}
		seen[o.ID] = true
		el.Add(o.Type.Validate())
		if o.Type.Counted() && o.RequiredQuantity <= 0 {
			el.Add(fmt.Errorf("objective %q: required_quantity must be positive", o.ID))
		}
	}
	for _, it := range q.Rewards.Items {
		el.Add(it.Validate())
	}
	if q.Prerequisites.Role != "" {
		el.Add(q.Prerequisites.Role.Validate())
	}
	return el.Err()
}

type QuestChain struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Quests      []string `json:"quests"`
}

func (c *QuestChain) Validate() error {
	el := errors.NewErrorList()
	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if len(c.Quests) == 0 {
		el.Add(fmt.Errorf("at least one quest is required"))
	}
	return el.Err()
}

// Objective is the mutable progress of one quest objective.
type Objective struct {
	ID               string        `json:"id"`
	Description      string        `json:"description"`
	Type             ObjectiveType `json:"type"`
	Target           string        `json:"target,omitempty"`
	RequiredQuantity int           `json:"required_quantity,omitempty"`
	CurrentQuantity  int           `json:"current_quantity"`
	Completed        bool          `json:"completed"`
}

// ApplyProgress adds delta to the objective and reports whether it changed.
// Completed objectives never change again.
func (o *Objective) ApplyProgress(delta int) bool {
	if o.Completed || delta <= 0 {
		return false
	}
	if !o.Type.Counted() {
		o.Completed = true
		return true
	}
	o.CurrentQuantity = min(o.CurrentQuantity+delta, o.RequiredQuantity)
	if o.CurrentQuantity >= o.RequiredQuantity {
		o.Completed = true
	}
	return true
}

type QuestInstance struct {
	ID          string      `json:"id"`
	InstanceID  string      `json:"instance_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        QuestType   `json:"type"`
	Status      QuestStatus `json:"status"`
	Objectives  []Objective `json:"objectives"`
	Rewards     Rewards     `json:"rewards"`
	AcceptedAt  GameTime    `json:"accepted_at"`
	ResolvedAt  *GameTime   `json:"resolved_at,omitempty"`
}

// NewQuestInstance copies a template with all objectives reset.
func NewQuestInstance(questID string, t *QuestTemplate, at GameTime) QuestInstance {
	q := QuestInstance{
		ID:          questID,
		InstanceID:  uuid.New().String(),
		Name:        t.Name,
		Description: t.Description,
		Type:        t.Type,
		Status:      QuestActive,
		Rewards:     t.Rewards.clone(),
		AcceptedAt:  at,
	}
	for _, o := range t.Objectives {
		q.Objectives = append(q.Objectives, Objective{
			ID:               o.ID,
			Description:      o.Description,
			Type:             o.Type,
			Target:           o.Target,
			RequiredQuantity: o.RequiredQuantity,
		})
	}
	return q
}

func (q QuestInstance) AllObjectivesComplete() bool {
	for _, o := range q.Objectives {
		if !o.Completed {
			return false
		}
	}
	return true
}

func (q QuestInstance) clone() QuestInstance {
	q.Objectives = slices.Clone(q.Objectives)
	q.Rewards = q.Rewards.clone()
	if q.ResolvedAt != nil {
		t := *q.ResolvedAt
		q.ResolvedAt = &t
	}
	return q
}
