package game

import "math"

const (
	// MaxHealthPerLevel is added to max health on every player level-up.
	MaxHealthPerLevel = 10

	// DefaultSkillBaseCost is used when a skill has no template.
	DefaultSkillBaseCost = 100

	skillCostGrowth = 1.5
)

// ExpForLevel returns the experience consumed to advance past the given level.
func ExpForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

// SkillCost returns the experience consumed to raise a skill from level:
//
//	floor(base × 1.5^level)
func SkillCost(base, level int) int {
	if base <= 0 {
		base = DefaultSkillBaseCost
	}
	return int(math.Floor(float64(base) * math.Pow(skillCostGrowth, float64(level))))
}
