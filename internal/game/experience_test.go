package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestSkillCost(t *testing.T) {
	tests := map[string]struct {
		base  int
		level int
		exp   int
	}{
		"level zero":       {base: 100, level: 0, exp: 100},
		"level one":        {base: 100, level: 1, exp: 150},
		"floors fractions": {base: 80, level: 5, exp: 607},
		"default base":     {base: 0, level: 2, exp: 225},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "cost", SkillCost(tt.base, tt.level), tt.exp)
		})
	}
}

func TestExpForLevel(t *testing.T) {
	testutil.AssertEqual(t, "level 1", ExpForLevel(1), 100)
	testutil.AssertEqual(t, "level 7", ExpForLevel(7), 700)
	testutil.AssertEqual(t, "level 0", ExpForLevel(0), 100)
}
