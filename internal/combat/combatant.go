package combat

import (
	"math"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/inventory"
	"github.com/pixil98/go-saga/internal/rng"
)

// Fighter is one side of a combat session. Health here is combat-local.
type Fighter struct {
	Name         string
	Level        int
	Health       int
	MaxHealth    int
	Strength     int
	Dexterity    int
	Defense      int
	DefenseBoost int
	Damage       game.DamageRange
}

func (f *Fighter) IsAlive() bool { return f.Health > 0 }

// EffectiveDefense includes any boost gained from defending.
func (f *Fighter) EffectiveDefense() int { return f.Defense + f.DefenseBoost }

func (f *Fighter) ApplyDamage(dmg int) {
	f.Health = max(0, f.Health-dmg)
}

// NewPlayerFighter derives the player's combat stats with equipment folded
// in. Without a weapon, damage comes from strength.
func NewPlayerFighter(p game.PlayerState) Fighter {
	st := inventory.StatsFor(p)
	f := Fighter{
		Name:      p.Name,
		Level:     p.Level,
		Health:    p.Health,
		MaxHealth: p.MaxHealth,
		Strength:  st.Attributes.Strength,
		Dexterity: st.Attributes.Dexterity,
		Defense:   st.Defense,
	}
	if st.Damage != nil {
		f.Damage = *st.Damage
	} else {
		f.Damage = game.DamageRange{
			Min: max(1, int(math.Floor(float64(f.Strength)*0.3))),
			Max: max(2, int(math.Floor(float64(f.Strength)*0.6))),
		}
	}
	return f
}

// NewEnemyFighter scales a creature to a level within one of the player's.
// Stats scale linearly by level over the creature's base strength.
func NewEnemyFighter(src rng.Source, c *game.CreatureTemplate, playerLevel int) Fighter {
	level := max(1, playerLevel+rng.Between(src, -1, 1))
	return ScaleCreature(c, level)
}

// ScaleCreature derives a creature's combat stats at level.
func ScaleCreature(c *game.CreatureTemplate, level int) Fighter {
	base := c.BaseAttributes
	scale := float64(level) / float64(max(1, base.Strength))
	floor := func(v float64) int { return int(math.Floor(v)) }

	hp := max(1, floor(float64(base.Constitution)*scale*5))
	dmgMin := floor(float64(base.Strength) * scale * 0.3)
	return Fighter{
		Name:      c.Name,
		Level:     level,
		Health:    hp,
		MaxHealth: hp,
		Strength:  floor(float64(base.Strength) * scale),
		Dexterity: floor(float64(base.Dexterity) * scale),
		Defense:   floor(float64(base.Strength+base.Dexterity) * scale * 0.2),
		Damage: game.DamageRange{
			Min: dmgMin,
			Max: max(dmgMin, floor(float64(base.Strength)*scale*0.6)),
		},
	}
}
