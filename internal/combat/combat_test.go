package combat_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/combat"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
	"github.com/pixil98/go-saga/internal/inventory"
	"github.com/pixil98/go-saga/internal/rng"
)

type fixture struct {
	dict    *game.Dictionary
	store   *game.Store
	tracker *gametest.Tracker
	inv     *inventory.Ledger
}

func newFixture(t *testing.T, health int) *fixture {
	t.Helper()
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)
	if err := st.UpdatePlayer(game.PlayerPatch{Health: &health}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := &gametest.Tracker{}
	return &fixture{dict: dict, store: st, tracker: tr, inv: inventory.NewLedger(st, dict, tr)}
}

func (f *fixture) manager(src rng.Source) *combat.Manager {
	return combat.NewManager(f.store, f.dict, src, f.inv, f.tracker)
}

func repeat[T any](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestManager_Fights(t *testing.T) {
	tests := map[string]struct {
		health     int
		ints       []int
		floats     []float64
		actions    []combat.Action
		expStatus  combat.Status
		expHealth  int
		expExp     int
		expEssence int
		expCounts  map[string]int
		expTrack   []game.ProgressEvent
	}{
		"victory": {
			health:     100,
			ints:       []int{1, 3, 0, 5},
			floats:     []float64{0.1, 0.9, 0.9},
			actions:    []combat.Action{combat.ActionAttack},
			expStatus:  combat.StatusPlayerWin,
			expHealth:  100,
			expExp:     10,
			expEssence: 17,
			expCounts:  map[string]int{"dire_wolf_pelt": 1},
			expTrack: []game.ProgressEvent{
				game.ItemCollected{ItemID: "dire_wolf_pelt", Quantity: 1},
				game.EnemyDefeated{CreatureID: "dire_wolf"},
			},
		},
		"loss never drops below one": {
			health:    10,
			ints:      append([]int{1}, repeat(0, 10)...),
			floats:    repeat(0.5, 10),
			actions:   repeat(combat.ActionDefend, 10),
			expStatus: combat.StatusEnemyWin,
			expHealth: 1,
			expCounts: map[string]int{},
		},
		"failed flee with lethal free attack": {
			health:    1,
			ints:      []int{1, 0},
			floats:    []float64{0.9},
			actions:   []combat.Action{combat.ActionFlee},
			expStatus: combat.StatusEnemyWin,
			expHealth: 1,
			expCounts: map[string]int{},
		},
		"failed flee survived": {
			health:    100,
			ints:      []int{1, 0},
			floats:    []float64{0.9},
			actions:   []combat.Action{combat.ActionFlee},
			expStatus: combat.StatusActive,
			expHealth: 100,
			expCounts: map[string]int{},
		},
		"fled": {
			health:    50,
			ints:      []int{1},
			floats:    []float64{0.3},
			actions:   []combat.Action{combat.ActionFlee},
			expStatus: combat.StatusFled,
			expHealth: 50,
			expCounts: map[string]int{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, tt.health)
			m := f.manager(&rng.Scripted{Ints: tt.ints, Floats: tt.floats})

			s, err := m.Start("dire_wolf")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "enemy level", s.Enemy.Level, 1)

			var res combat.TurnResult
			for _, a := range tt.actions {
				res, err = m.Act(s.ID, a)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			testutil.AssertEqual(t, "status", res.Session.Status, tt.expStatus)
			pl := f.store.Player()
			testutil.AssertEqual(t, "health", pl.Health, tt.expHealth)
			testutil.AssertEqual(t, "experience", pl.Experience, tt.expExp)
			testutil.AssertEqual(t, "essence", pl.Essence, tt.expEssence)
			if diff := cmp.Diff(tt.expCounts, gametest.Counts(pl)); diff != "" {
				t.Errorf("inventory (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.expTrack, f.tracker.Events); diff != "" {
				t.Errorf("tracked (-want +got):\n%s", diff)
			}

			if tt.expStatus != combat.StatusActive {
				_, err = m.Act(s.ID, combat.ActionAttack)
				if !errors.Is(err, game.ErrCombatNotActive) {
					t.Errorf("expected combat not active, got %v", err)
				}
			}
		})
	}
}

func TestManager_Actions(t *testing.T) {
	f := newFixture(t, 100)
	m := f.manager(&rng.Scripted{Ints: []int{1, 1, 0}, Floats: []float64{0.5}})

	s, err := m.Start("dire_wolf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := []combat.Action{combat.ActionAttack, combat.ActionDefend, combat.ActionFlee}
	if diff := cmp.Diff(exp, s.Actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}

	_, err = m.Act(s.ID, combat.ActionSpecialAttack)
	testutil.AssertErrorContains(t, err, "you cannot special_attack right now")
	if !errors.Is(err, game.ErrActionUnavailable) {
		t.Errorf("expected action unavailable, got %v", err)
	}

	_, err = m.Start("echo_wraith")
	if !errors.Is(err, game.ErrActionUnavailable) {
		t.Errorf("expected second start to fail, got %v", err)
	}

	_, err = m.Act("missing", combat.ActionAttack)
	if !errors.Is(err, game.ErrCombatNotFound) {
		t.Errorf("expected combat not found, got %v", err)
	}

	_, err = m.Start("kraken")
	if !errors.Is(err, game.ErrCreatureNotFound) {
		t.Errorf("expected creature not found, got %v", err)
	}
}

func TestManager_SpecialAttackAndAnalyze(t *testing.T) {
	f := newFixture(t, 100)
	sword := gametest.Give(t, f.dict, f.store, "steel_sword", 1)
	if _, err := f.inv.EquipItem(sword.InstanceID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.store.AddSkillExperience(combat.AnalyzeSkill, 80+120+180); !ok {
		t.Fatalf("expected skill experience to apply")
	}

	// Level 2 dire wolf: 8 health.
	m := f.manager(&rng.Scripted{Ints: []int{2, 0, 0}, Floats: []float64{0.1}})
	s, err := m.Start("dire_wolf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := []combat.Action{combat.ActionAttack, combat.ActionDefend, combat.ActionSpecialAttack, combat.ActionAnalyzeWeakness, combat.ActionFlee}
	if diff := cmp.Diff(exp, s.Actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}

	defense := s.Enemy.Defense
	res, err := m.Act(s.ID, combat.ActionAnalyzeWeakness)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "enemy defense untouched", res.Session.Enemy.Defense, defense)
	testutil.AssertEqual(t, "analysis", res.Messages[0], "You study Dire Wolf: level 2, health 8/8, strength 2, defense 0.")
	testutil.AssertEqual(t, "enemy defended", res.Session.Enemy.DefenseBoost, 2)

	// A 15 point special attack kills before the enemy can act.
	m2 := f.manager(&rng.Scripted{Ints: []int{2, 0, 0}, Floats: []float64{0.99, 0.99, 0.99}})
	s, err = m2.Start("dire_wolf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err = m2.Act(s.ID, combat.ActionSpecialAttack)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "message", res.Messages[0], "You unleash a special attack on Dire Wolf for 15 damage.")
	testutil.AssertEqual(t, "status", res.Session.Status, combat.StatusPlayerWin)
}

func TestDamage_NeverBelowOne(t *testing.T) {
	for base := 0; base <= 30; base++ {
		for defense := 0; defense <= 40; defense++ {
			for _, power := range []float64{1, combat.SpecialAttackPower} {
				if got := combat.Damage(base, power, defense); got < 1 {
					t.Fatalf("Damage(%d, %v, %d) = %d", base, power, defense, got)
				}
			}
		}
	}
}

func TestDamage(t *testing.T) {
	tests := map[string]struct {
		base    int
		power   float64
		defense int
		exp     int
	}{
		"plain":          {base: 10, power: 1, defense: 3, exp: 7},
		"special floors": {base: 5, power: 1.5, defense: 0, exp: 7},
		"armored":        {base: 4, power: 1, defense: 9, exp: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "damage", combat.Damage(tt.base, tt.power, tt.defense), tt.exp)
		})
	}
}

func TestDamageVerb(t *testing.T) {
	tests := map[string]struct {
		damage int
		exp    string
	}{
		"minimum":     {damage: 1, exp: "grazes"},
		"tier edge":   {damage: 10, exp: "wounds"},
		"past edge":   {damage: 11, exp: "batters"},
		"beyond list": {damage: 99, exp: "unmakes"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "verb", combat.DamageVerb(tt.damage), tt.exp)
		})
	}
}

func TestScaleCreature(t *testing.T) {
	dict := gametest.Dictionary(t)
	wolf, err := dict.Creature("dire_wolf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		level int
		exp   combat.Fighter
	}{
		"level one": {
			level: 1,
			exp:   combat.Fighter{Name: "Dire Wolf", Level: 1, Health: 4, MaxHealth: 4, Strength: 1, Dexterity: 0, Defense: 0, Damage: game.DamageRange{Min: 0, Max: 0}},
		},
		"level two": {
			level: 2,
			exp:   combat.Fighter{Name: "Dire Wolf", Level: 2, Health: 8, MaxHealth: 8, Strength: 2, Dexterity: 1, Defense: 0, Damage: game.DamageRange{Min: 0, Max: 1}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tt.exp, combat.ScaleCreature(wolf, tt.level)); diff != "" {
				t.Errorf("fighter (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRollLoot(t *testing.T) {
	dict := gametest.Dictionary(t)
	table := dict.LootTables.Get("loot_table_rabbit_pelt")

	items, currency := combat.RollLoot(&rng.Scripted{Ints: []int{1, 2}, Floats: []float64{0.5, 0.6}}, table)

	exp := []game.ItemAmount{{Item: "rabbit_pelt", Quantity: 2}}
	if diff := cmp.Diff(exp, items); diff != "" {
		t.Errorf("loot (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "currency", currency, 3)
}

func TestRollLoot_SkipsEmptyRolls(t *testing.T) {
	table := &game.LootTable{
		Entries: []game.LootEntry{
			{Item: "small_bone", Chance: 1, Quantity: game.Range{Min: 0, Max: 2}},
			{Item: "wolf_fang", Chance: 1, Quantity: game.Range{Min: 1, Max: 1}},
		},
	}

	items, currency := combat.RollLoot(&rng.Scripted{Ints: []int{0, 0}, Floats: []float64{0, 0}}, table)

	exp := []game.ItemAmount{{Item: "wolf_fang", Quantity: 1}}
	if diff := cmp.Diff(exp, items); diff != "" {
		t.Errorf("loot (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "currency", currency, 0)
}
