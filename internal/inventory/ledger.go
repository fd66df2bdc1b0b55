// Package inventory owns the player's items: picking up, using, equipping,
// selling, and the equipment-adjusted stat view.
package inventory

import (
	"fmt"

	"github.com/pixil98/go-saga/internal/game"
)

// Ledger applies inventory operations through the store.
type Ledger struct {
	store   *game.Store
	dict    *game.Dictionary
	tracker game.ProgressTracker
}

// NewLedger creates a Ledger. tracker may be nil.
func NewLedger(store *game.Store, dict *game.Dictionary, tracker game.ProgressTracker) *Ledger {
	return &Ledger{store: store, dict: dict, tracker: tracker}
}

// SetTracker replaces the progress tracker used for pickups.
func (l *Ledger) SetTracker(t game.ProgressTracker) {
	l.tracker = t
}

// AddItem creates a fresh instance of itemID and reports the pickup to
// quest tracking.
func (l *Ledger) AddItem(itemID string, qty int) (game.ItemInstance, error) {
	inst, err := l.Grant(itemID, qty)
	if err != nil {
		return inst, err
	}
	if l.tracker != nil {
		l.tracker.Track(game.ItemCollected{ItemID: itemID, Quantity: qty})
	}
	return inst, nil
}

// Grant creates a fresh instance of itemID without reporting a pickup.
// Rewards and crafted outputs go through here.
func (l *Ledger) Grant(itemID string, qty int) (game.ItemInstance, error) {
	if qty <= 0 {
		return game.ItemInstance{}, game.Invariantf("item quantity must be positive, got %d", qty)
	}
	t, err := l.dict.Item(itemID)
	if err != nil {
		return game.ItemInstance{}, err
	}
	return l.store.AddToInventory(game.NewItemInstance(itemID, t, qty))
}

// RemoveItem takes qty units from an instance.
func (l *Ledger) RemoveItem(instanceID string, qty int) (game.ItemInstance, error) {
	return l.store.RemoveFromInventory(instanceID, qty)
}

// UseResult describes a consumed item.
type UseResult struct {
	Item    game.ItemInstance
	Effect  game.EffectType
	Amount  int
	Message string
}

// UseItem applies a consumable's effect and then removes one unit.
func (l *Ledger) UseItem(instanceID string) (UseResult, error) {
	item, ok := l.store.Player().FindItem(instanceID)
	if !ok {
		return UseResult{}, game.Fail(game.ErrItemNotFound, "that item is not in your inventory")
	}
	if item.Type != game.ItemTypeConsumable {
		return UseResult{}, game.Fail(game.ErrItemNotUsable, "%s cannot be used", item.Name)
	}
	effect := l.dict.Effects.Get(item.Effect)
	if effect == nil {
		return UseResult{}, game.Fail(game.ErrEffectNotFound, "%s has no known effect", item.Name)
	}

	res := UseResult{Item: item, Effect: effect.Type}
	switch effect.Type {
	case game.EffectHeal:
		healed, err := l.store.Heal(effect.Amount)
		if err != nil {
			return UseResult{}, err
		}
		res.Amount = healed
		res.Message = fmt.Sprintf("You use %s and recover %d health.", item.Name, healed)
	case game.EffectLore:
		res.Message = fmt.Sprintf("You study %s and glimpse a fragment of ancient knowledge.", item.Name)
	case game.EffectDamage:
		res.Amount = effect.Amount
		res.Message = fmt.Sprintf("You use %s, dealing %d damage.", item.Name, effect.Amount)
	default:
		res.Message = fmt.Sprintf("You use %s.", item.Name)
	}

	if _, err := l.store.RemoveFromInventory(instanceID, 1); err != nil {
		return UseResult{}, err
	}
	res.Item.Quantity = 1
	return res, nil
}

// EquipResult describes an equip.
type EquipResult struct {
	Slot     game.Slot
	Item     game.ItemInstance
	Replaced *game.ItemInstance
	Message  string
}

// EquipItem moves an item into its slot, returning any previous occupant to
// the inventory. Rings take the first free ring slot and replace the last
// one when both are full.
func (l *Ledger) EquipItem(instanceID string) (EquipResult, error) {
	pl := l.store.Player()
	item, ok := pl.FindItem(instanceID)
	if !ok {
		return EquipResult{}, game.Fail(game.ErrItemNotFound, "that item is not in your inventory")
	}

	slots := item.Type.EquipSlots()
	if len(slots) == 0 {
		return EquipResult{}, game.Fail(game.ErrNotEquippable, "%s cannot be equipped", item.Name)
	}
	if msg := pl.Attributes.Unmet(item.AttributeRequirements); msg != "" {
		return EquipResult{}, game.Fail(game.ErrAttributeRequirementNotMet, "%s %s", item.Name, msg)
	}

	slot := slots[len(slots)-1]
	for _, s := range slots {
		if _, taken := pl.Equipment[s]; !taken {
			slot = s
			break
		}
	}

	prev, err := l.store.Equip(instanceID, slot)
	if err != nil {
		return EquipResult{}, err
	}

	item.Quantity = 1
	res := EquipResult{Slot: slot, Item: item, Replaced: prev}
	if prev != nil {
		res.Message = fmt.Sprintf("You equip %s, replacing %s.", item.Name, prev.Name)
	} else {
		res.Message = fmt.Sprintf("You equip %s.", item.Name)
	}
	return res, nil
}

// UnequipItem returns the item in slot to the inventory.
func (l *Ledger) UnequipItem(slot game.Slot) (game.ItemInstance, error) {
	if err := slot.Validate(); err != nil {
		return game.ItemInstance{}, game.Fail(game.ErrSlotEmpty, "there is no %s slot", slot)
	}
	return l.store.Unequip(slot)
}

// SaleResult describes a sale.
type SaleResult struct {
	Item     game.ItemInstance
	Quantity int
	Essence  int
	Message  string
}

// SellItem sells qty units for half their value, rounded down.
func (l *Ledger) SellItem(instanceID string, qty int) (SaleResult, error) {
	if qty <= 0 {
		return SaleResult{}, game.Invariantf("sell quantity must be positive, got %d", qty)
	}
	item, ok := l.store.Player().FindItem(instanceID)
	if !ok {
		return SaleResult{}, game.Fail(game.ErrItemNotFound, "that item is not in your inventory")
	}
	if qty > item.Quantity {
		return SaleResult{}, game.Fail(game.ErrInsufficientQuantity, "you only have %d %s", item.Quantity, item.Name)
	}

	price := item.Value * qty / 2
	removed, err := l.store.RemoveFromInventory(instanceID, qty)
	if err != nil {
		return SaleResult{}, err
	}
	if price > 0 {
		if _, err := l.store.AddEssence(price); err != nil {
			return SaleResult{}, err
		}
	}

	return SaleResult{
		Item:     removed,
		Quantity: qty,
		Essence:  price,
		Message:  fmt.Sprintf("You sell %d %s for %d essence.", qty, item.Name, price),
	}, nil
}
