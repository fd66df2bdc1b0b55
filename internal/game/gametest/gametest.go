// Package gametest provides a resolved dictionary of canonical data and
// small fakes shared by the subsystem tests.
package gametest

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/storage"
)

func memory[T storage.ValidatingSpec](t testing.TB, records map[string]T) storage.Storer[T] {
	t.Helper()
	st, err := storage.NewMemoryStore(records)
	if err != nil {
		t.Fatalf("building fixture table: %v", err)
	}
	return st
}

// Dictionary returns a resolved dictionary holding the canonical data set.
func Dictionary(t testing.TB) *game.Dictionary {
	t.Helper()

	d := &game.Dictionary{
		Items:       memory(t, Items()),
		Effects:     memory(t, Effects()),
		LootTables:  memory(t, LootTables()),
		Creatures:   memory(t, Creatures()),
		Skills:      memory(t, Skills()),
		Regions:     memory(t, Regions()),
		Landmarks:   memory(t, Landmarks()),
		Quests:      memory(t, Quests()),
		QuestChains: memory(t, QuestChains()),
		Recipes:     memory(t, Recipes()),
		Roles:       memory(t, Roles()),
		WorldEvents: memory(t, WorldEvents()),
	}
	if err := d.Resolve(); err != nil {
		t.Fatalf("resolving fixture dictionary: %v", err)
	}
	return d
}

func file[T storage.ValidatingSpec](t testing.TB, root, table string) storage.Storer[T] {
	t.Helper()
	st, err := storage.NewFileStore[T](filepath.Join(root, table))
	if err != nil {
		t.Fatalf("loading %s: %v", table, err)
	}
	return st
}

// Load returns the resolved dictionary stored as asset files under root.
func Load(t testing.TB, root string) *game.Dictionary {
	t.Helper()

	d := &game.Dictionary{
		Items:       file[*game.ItemTemplate](t, root, "items"),
		Effects:     file[*game.EffectTemplate](t, root, "effects"),
		LootTables:  file[*game.LootTable](t, root, "loot_tables"),
		Creatures:   file[*game.CreatureTemplate](t, root, "creatures"),
		Skills:      file[*game.SkillTemplate](t, root, "skills"),
		Regions:     file[*game.RegionTemplate](t, root, "regions"),
		Landmarks:   file[*game.LandmarkTemplate](t, root, "landmarks"),
		Quests:      file[*game.QuestTemplate](t, root, "quests"),
		QuestChains: file[*game.QuestChain](t, root, "quest_chains"),
		Recipes:     file[*game.Recipe](t, root, "recipes"),
		Roles:       file[*game.RoleTemplate](t, root, "roles"),
		WorldEvents: file[*game.WorldEventTemplate](t, root, "world_events"),
	}
	if err := d.Resolve(); err != nil {
		t.Fatalf("resolving %s: %v", root, err)
	}
	return d
}

// NewStore builds a fresh game for role over dict.
func NewStore(t testing.TB, dict *game.Dictionary, role game.Role) *game.Store {
	t.Helper()
	g, err := game.NewGameState(dict, game.NewGameOptions{PlayerName: "Tester", Role: role, ForgerEssence: 100})
	if err != nil {
		t.Fatalf("creating game state: %v", err)
	}
	return game.NewStore(g, dict.Skills)
}

// Give adds qty of itemID to the player as a single instance.
func Give(t testing.TB, dict *game.Dictionary, st *game.Store, itemID string, qty int) game.ItemInstance {
	t.Helper()
	tmpl, err := dict.Item(itemID)
	if err != nil {
		t.Fatalf("giving %s: %v", itemID, err)
	}
	inst, err := st.AddToInventory(game.NewItemInstance(itemID, tmpl, qty))
	if err != nil {
		t.Fatalf("giving %s: %v", itemID, err)
	}
	return inst
}

// Counts totals the inventory by item id.
func Counts(p game.PlayerState) map[string]int {
	out := map[string]int{}
	for _, it := range p.Inventory {
		out[it.ItemID] += it.Quantity
	}
	return out
}

// Recorder captures store events.
type Recorder struct {
	mu     sync.Mutex
	events []game.Event
}

func (r *Recorder) Handle(ev game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *Recorder) Events() []game.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.Event(nil), r.events...)
}

func (r *Recorder) Kinds() []string {
	var kinds []string
	for _, ev := range r.Events() {
		kinds = append(kinds, ev.Kind())
	}
	return kinds
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Tracker records progress events.
type Tracker struct {
	Events []game.ProgressEvent
}

func (t *Tracker) Track(ev game.ProgressEvent) {
	t.Events = append(t.Events, ev)
}
