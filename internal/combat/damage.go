package combat

import (
	"math"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

// RollDamage rolls within r, scales by power and subtracts defense. The
// result is never less than 1.
func RollDamage(src rng.Source, r game.DamageRange, power float64, defense int) int {
	base := rng.Between(src, r.Min, r.Max)
	return Damage(base, power, defense)
}

// Damage applies power and defense to a base roll, with a minimum of 1.
func Damage(base int, power float64, defense int) int {
	return max(1, int(math.Floor(float64(base)*power))-defense)
}

// damageVerbs escalate with the damage dealt; the last tier covers anything
// larger.
var damageVerbs = []struct {
	upTo int
	verb string
}{
	{1, "grazes"},
	{3, "nicks"},
	{6, "strikes"},
	{10, "wounds"},
	{15, "batters"},
	{22, "savages"},
	{30, "rends"},
	{45, "shatters"},
}

// DamageVerb describes a hit as "{attacker} {verb} {target}".
func DamageVerb(damage int) string {
	for _, v := range damageVerbs {
		if damage <= v.upTo {
			return v.verb
		}
	}
	return "unmakes"
}
