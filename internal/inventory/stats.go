package inventory

import "github.com/pixil98/go-saga/internal/game"

// Stats is the player's attributes with equipment folded in.
type Stats struct {
	Attributes game.Attributes
	Defense    int
	Damage     *game.DamageRange
	Health     int
	MaxHealth  int
}

// StatsFor folds every equipped item onto the player's base attributes.
func StatsFor(p game.PlayerState) Stats {
	st := Stats{Attributes: p.Attributes, Health: p.Health, MaxHealth: p.MaxHealth}
	for _, slot := range game.Slots {
		item, ok := p.Equipment[slot]
		if !ok {
			continue
		}
		st.Attributes = st.Attributes.Add(item.AttributeModifiers)
		st.Defense += item.DefenseRating
		if slot == game.SlotWeapon && item.Damage != nil {
			d := *item.Damage
			st.Damage = &d
		}
	}
	return st
}

// PlayerStats is StatsFor applied to the current player.
func (l *Ledger) PlayerStats() Stats {
	return StatsFor(l.store.Player())
}
