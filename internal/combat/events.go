package combat

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

const (
	// LossPenalty is the share of max health lost on defeat.
	LossPenalty = 0.2
	// CombatSkill receives half the experience of a victory once unlocked.
	CombatSkill = "combat"
)

// Outcome records what the end of a fight changed.
type Outcome struct {
	Status     Status
	Experience int
	Essence    int
	Loot       []game.ItemInstance
	HealthLost int
}

// finish moves s to a terminal status and applies the result to the store.
func (m *Manager) finish(s *Session, status Status) []string {
	s.Status = status
	out := &Outcome{Status: status}
	s.Outcome = out

	switch status {
	case StatusPlayerWin:
		return m.onVictory(s, out)
	case StatusEnemyWin:
		return m.onDefeat(s, out)
	}
	return nil
}

func (m *Manager) onVictory(s *Session, out *Outcome) []string {
	msgs := []string{s.logf("You defeat %s!", s.Enemy.Name)}

	out.Experience = s.Enemy.Level * 10
	out.Essence = s.Enemy.Level * 2

	c := m.dict.Creatures.Get(s.CreatureID)
	if c != nil && c.LootTable.Get() != nil {
		items, currency := RollLoot(m.rng, c.LootTable.Get())
		out.Essence += currency
		for _, it := range items {
			inst, err := m.looter.AddItem(it.Item, it.Quantity)
			if err != nil {
				slog.Warn("granting loot", "item", it.Item, "error", err)
				continue
			}
			out.Loot = append(out.Loot, inst)
		}
	}

	if _, err := m.store.AddPlayerExperience(out.Experience); err != nil {
		slog.Warn("granting combat experience", "error", err)
	}
	if _, err := m.store.AddEssence(out.Essence); err != nil {
		slog.Warn("granting combat essence", "error", err)
	}
	if sk, ok := m.store.Player().Skills[CombatSkill]; ok && sk.Unlocked {
		m.store.AddSkillExperience(CombatSkill, out.Experience/2)
	}

	msgs = append(msgs, s.logf("You gain %d experience and %d essence.", out.Experience, out.Essence))
	if len(out.Loot) > 0 {
		var names []string
		for _, it := range out.Loot {
			names = append(names, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		msgs = append(msgs, s.logf("Loot: %s.", strings.Join(names, ", ")))
	}

	if m.tracker != nil {
		m.tracker.Track(game.EnemyDefeated{CreatureID: s.CreatureID})
	}
	return msgs
}

// onDefeat costs the player a share of max health. Nobody dies: health
// never drops below 1.
func (m *Manager) onDefeat(s *Session, out *Outcome) []string {
	pl := m.store.Player()
	penalty := int(math.Floor(float64(pl.MaxHealth) * LossPenalty))
	health := max(1, pl.Health-penalty)
	out.HealthLost = pl.Health - health

	if err := m.store.UpdatePlayer(game.PlayerPatch{Health: &health}); err != nil {
		slog.Warn("applying defeat penalty", "error", err)
	}
	return []string{
		s.logf("%s defeats you!", s.Enemy.Name),
		s.logf("You lose %d health.", out.HealthLost),
	}
}

// RollLoot rolls every entry of t independently, then the currency. Entries
// that roll a quantity of zero drop nothing.
func RollLoot(src rng.Source, t *game.LootTable) ([]game.ItemAmount, int) {
	var items []game.ItemAmount
	for _, e := range t.Entries {
		if !rng.Chance(src, e.Chance) {
			continue
		}
		qty := rng.Between(src, e.Quantity.Min, e.Quantity.Max)
		if qty <= 0 {
			continue
		}
		items = append(items, game.ItemAmount{Item: e.Item, Quantity: qty})
	}
	currency := 0
	if t.Currency != nil {
		currency = max(0, rng.Between(src, t.Currency.Min, t.Currency.Max))
	}
	return items, currency
}
