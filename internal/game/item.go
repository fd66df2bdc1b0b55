package game

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
)

type ItemType string

const (
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeHelmet     ItemType = "helmet"
	ItemTypeBoots      ItemType = "boots"
	ItemTypeRing       ItemType = "ring"
	ItemTypeAmulet     ItemType = "amulet"
	ItemTypeArtifact   ItemType = "artifact"
	ItemTypeMaterial   ItemType = "material"
	ItemTypeTool       ItemType = "tool"
	ItemTypeCurrency   ItemType = "currency"
)

func (t ItemType) Validate() error {
	switch t {
	case ItemTypeConsumable, ItemTypeWeapon, ItemTypeArmor, ItemTypeHelmet, ItemTypeBoots,
		ItemTypeRing, ItemTypeAmulet, ItemTypeArtifact, ItemTypeMaterial, ItemTypeTool, ItemTypeCurrency:
		return nil
	}
	return fmt.Errorf("unknown item type %q", t)
}

type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotArmor  Slot = "armor"
	SlotHelmet Slot = "helmet"
	SlotBoots  Slot = "boots"
	SlotRing1  Slot = "ring1"
	SlotRing2  Slot = "ring2"
	SlotAmulet Slot = "amulet"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotRing1, SlotRing2, SlotAmulet}

func (s Slot) Validate() error {
	for _, v := range Slots {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("unknown slot %q", s)
}

// EquipSlots returns the slots an item type may occupy, in fill order.
func (t ItemType) EquipSlots() []Slot {
	switch t {
	case ItemTypeWeapon:
		return []Slot{SlotWeapon}
	case ItemTypeArmor:
		return []Slot{SlotArmor}
	case ItemTypeHelmet:
		return []Slot{SlotHelmet}
	case ItemTypeBoots:
		return []Slot{SlotBoots}
	case ItemTypeRing:
		return []Slot{SlotRing1, SlotRing2}
	case ItemTypeAmulet:
		return []Slot{SlotAmulet}
	}
	return nil
}

type DamageRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (d DamageRange) Validate() error {
	if d.Min < 0 || d.Max < d.Min {
		return fmt.Errorf("damage range %d-%d is invalid", d.Min, d.Max)
	}
	return nil
}

// ItemTemplate is a static item definition.
type ItemTemplate struct {
	Name                  string         `json:"name"`
	Description           string         `json:"description,omitempty"`
	Type                  ItemType       `json:"type"`
	Rarity                string         `json:"rarity,omitempty"`
	Value                 int            `json:"value"`
	Effect                string         `json:"effect,omitempty"`
	Damage                *DamageRange   `json:"damage,omitempty"`
	DefenseRating         int            `json:"defense_rating,omitempty"`
	AttributeModifiers    map[string]int `json:"attribute_modifiers,omitempty"`
	AttributeRequirements map[string]int `json:"attribute_requirements,omitempty"`
}

func (t *ItemTemplate) Validate() error {
	el := errors.NewErrorList()

	if t.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	el.Add(t.Type.Validate())
	if t.Value < 0 {
		el.Add(fmt.Errorf("value must not be negative"))
	}
	if t.Damage != nil {
		el.Add(t.Damage.Validate())
	}
	for attr := range t.AttributeModifiers {
		if !IsAttribute(attr) {
			el.Add(fmt.Errorf("unknown modifier attribute %q", attr))
		}
	}
	for attr := range t.AttributeRequirements {
		if !IsAttribute(attr) {
			el.Add(fmt.Errorf("unknown required attribute %q", attr))
		}
	}

	return el.Err()
}

// ItemInstance is one held copy of an item. Template fields are copied at
// creation and never change; only Quantity does.
type ItemInstance struct {
	ItemID                string         `json:"item_id"`
	InstanceID            string         `json:"instance_id"`
	Quantity              int            `json:"quantity"`
	Name                  string         `json:"name"`
	Type                  ItemType       `json:"type"`
	Rarity                string         `json:"rarity,omitempty"`
	Value                 int            `json:"value"`
	Effect                string         `json:"effect,omitempty"`
	Damage                *DamageRange   `json:"damage,omitempty"`
	DefenseRating         int            `json:"defense_rating,omitempty"`
	AttributeModifiers    map[string]int `json:"attribute_modifiers,omitempty"`
	AttributeRequirements map[string]int `json:"attribute_requirements,omitempty"`
	Quality               Quality        `json:"quality,omitempty"`
}

// NewItemInstance stamps a template into a fresh instance with its own id.
func NewItemInstance(itemID string, t *ItemTemplate, quantity int) ItemInstance {
	inst := ItemInstance{
		ItemID:                itemID,
		InstanceID:            uuid.New().String(),
		Quantity:              quantity,
		Name:                  t.Name,
		Type:                  t.Type,
		Rarity:                t.Rarity,
		Value:                 t.Value,
		Effect:                t.Effect,
		DefenseRating:         t.DefenseRating,
		AttributeModifiers:    maps.Clone(t.AttributeModifiers),
		AttributeRequirements: maps.Clone(t.AttributeRequirements),
	}
	if t.Damage != nil {
		d := *t.Damage
		inst.Damage = &d
	}
	return inst
}

func (i ItemInstance) clone() ItemInstance {
	i.AttributeModifiers = maps.Clone(i.AttributeModifiers)
	i.AttributeRequirements = maps.Clone(i.AttributeRequirements)
	if i.Damage != nil {
		d := *i.Damage
		i.Damage = &d
	}
	return i
}

// Quality is the crafted grade of an item instance.
type Quality string

const (
	QualityNormal    Quality = "normal"
	QualityFine      Quality = "fine"
	QualityExcellent Quality = "excellent"
	QualityLegendary Quality = "legendary"
)

// ItemAmount pairs an item id with a quantity.
type ItemAmount struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

func (a ItemAmount) Validate() error {
	el := errors.NewErrorList()
	if a.Item == "" {
		el.Add(fmt.Errorf("item is required"))
	}
	if a.Quantity <= 0 {
		el.Add(fmt.Errorf("quantity for %q must be positive", a.Item))
	}
	return el.Err()
}
