package game

import (
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-saga/internal/storage"
)

// Handler receives store events.
type Handler func(Event)

type subscription struct {
	id   uint64
	name string
	fn   Handler
}

// Store is the single source of truth for a game session. State is only
// changed through its mutators; readers receive deep copies, so nothing a
// caller holds can bypass the mutators.
//
// Each mutator applies its change under the store lock and then raises one
// event. Events are delivered synchronously to subscribers in registration
// order after the lock is released. A subscriber may call mutators; the
// events those raise are queued behind the one being delivered.
type Store struct {
	mu     sync.RWMutex
	state  *GameState
	skills storage.Storer[*SkillTemplate]

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64

	queueMu     sync.Mutex
	queue       []Event
	dispatching bool
}

func NewStore(state *GameState, skills storage.Storer[*SkillTemplate]) *Store {
	st := state.Clone()
	st.Normalize()
	return &Store{state: st, skills: skills}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(name string, fn Handler) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, name: name, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

func (s *Store) subscribers() []subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return slices.Clone(s.subs)
}

func (s *Store) publish(ev Event) {
	s.queueMu.Lock()
	s.queue = append(s.queue, ev)
	if s.dispatching {
		s.queueMu.Unlock()
		return
	}
	s.dispatching = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		for _, sub := range s.subscribers() {
			s.deliver(sub, next)
		}

		s.queueMu.Lock()
	}

	s.dispatching = false
	s.queueMu.Unlock()
}

func (s *Store) deliver(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("store subscriber panicked", "subscriber", sub.name, "event", ev.Kind(), "panic", r)
		}
	}()
	sub.fn(ev)
}

// mutate runs fn under the write lock and publishes its event afterwards.
// fn must validate before it changes anything so failures leave no trace.
func (s *Store) mutate(fn func(g *GameState) (Event, error)) error {
	s.mu.Lock()
	ev, err := fn(s.state)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if ev != nil {
		s.publish(ev)
	}
	return nil
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() *GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Player() PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Player.clone()
}

func (s *Store) World() WorldState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.World.clone()
}

func (s *Store) Forger() ForgerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Forger.clone()
}

func (s *Store) Time() GameTime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.World.Time
}

func (s *Store) NPC(id string) (NPC, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.state.NPCs[id]
	return n.clone(), ok
}

// NPCIDs returns every NPC id in sorted order.
func (s *Store) NPCIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := slices.Collect(maps.Keys(s.state.NPCs))
	sort.Strings(ids)
	return ids
}

// Replace swaps in a whole new state, as on load or reset.
func (s *Store) Replace(g *GameState) {
	next := g.Clone()
	next.Normalize()
	_ = s.mutate(func(cur *GameState) (Event, error) {
		*cur = *next
		return StateReplaced{}, nil
	})
}

// StatePatch replaces whole top-level subtrees. Nil fields are left alone.
type StatePatch struct {
	Player   *PlayerState
	World    *WorldState
	NPCs     map[string]NPC
	Forger   *ForgerState
	Settings *Settings
}

func (s *Store) UpdateState(p StatePatch) error {
	return s.mutate(func(g *GameState) (Event, error) {
		if p.Player != nil && p.Player.Role != g.Player.Role {
			return nil, Invariantf("player role cannot change from %q to %q", g.Player.Role, p.Player.Role)
		}
		if p.World != nil {
			if err := validateWorld(*p.World); err != nil {
				return nil, err
			}
		}

		var fields []string
		if p.Player != nil {
			g.Player = p.Player.clone()
			fields = append(fields, "player")
		}
		if p.World != nil {
			g.World = p.World.clone()
			fields = append(fields, "world")
		}
		if p.NPCs != nil {
			g.NPCs = make(map[string]NPC, len(p.NPCs))
			for id, n := range p.NPCs {
				g.NPCs[id] = n.clone()
			}
			fields = append(fields, "npcs")
		}
		if p.Forger != nil {
			g.Forger = p.Forger.clone()
			fields = append(fields, "forger")
		}
		if p.Settings != nil {
			g.Settings = p.Settings.clone()
			fields = append(fields, "settings")
		}
		if len(fields) == 0 {
			return nil, nil
		}
		g.Normalize()
		return StateUpdated{Fields: fields}, nil
	})
}

func validateWorld(w WorldState) error {
	if w.CorruptionLevel < 0 || w.CorruptionLevel > 1 {
		return Invariantf("corruption level %v outside [0,1]", w.CorruptionLevel)
	}
	t := w.Time
	if t.Minute < 0 || t.Minute >= MinutesPerHour || t.Hour < 0 || t.Hour >= HoursPerDay {
		return Invariantf("time %02d:%02d is not normalized", t.Hour, t.Minute)
	}
	return nil
}

// PlayerPatch merges into the player. Nil fields are left alone.
type PlayerPatch struct {
	Name       *string
	Location   *string
	Health     *int
	MaxHealth  *int
	Attributes *Attributes
}

func (s *Store) UpdatePlayer(p PlayerPatch) error {
	return s.mutate(func(g *GameState) (Event, error) {
		if p.MaxHealth != nil && *p.MaxHealth <= 0 {
			return nil, Invariantf("max health must be positive, got %d", *p.MaxHealth)
		}

		pl := &g.Player
		var fields []string
		if p.Name != nil {
			pl.Name = *p.Name
			fields = append(fields, "name")
		}
		if p.Location != nil {
			pl.Location = *p.Location
			fields = append(fields, "location")
		}
		if p.MaxHealth != nil {
			pl.MaxHealth = *p.MaxHealth
			fields = append(fields, "max_health")
		}
		if p.Health != nil {
			pl.Health = *p.Health
			fields = append(fields, "health")
		}
		if p.Attributes != nil {
			pl.Attributes = *p.Attributes
			fields = append(fields, "attributes")
		}
		if len(fields) == 0 {
			return nil, nil
		}
		pl.Health = max(0, min(pl.Health, pl.MaxHealth))
		return PlayerUpdated{Fields: fields}, nil
	})
}

// WorldPatch merges into the world. Regions are merged per id.
type WorldPatch struct {
	NexusState      *NexusState
	CorruptionLevel *float64
	Regions         map[string]RegionState
}

func (s *Store) UpdateWorld(p WorldPatch) error {
	return s.mutate(func(g *GameState) (Event, error) {
		if p.CorruptionLevel != nil && (*p.CorruptionLevel < 0 || *p.CorruptionLevel > 1) {
			return nil, Invariantf("corruption level %v outside [0,1]", *p.CorruptionLevel)
		}

		var fields []string
		if p.NexusState != nil {
			g.World.NexusState = *p.NexusState
			fields = append(fields, "nexus_state")
		}
		if p.CorruptionLevel != nil {
			g.World.CorruptionLevel = *p.CorruptionLevel
			fields = append(fields, "corruption_level")
		}
		if len(p.Regions) > 0 {
			for id, r := range p.Regions {
				r.Events = slices.Clone(r.Events)
				g.World.Regions[id] = r
			}
			fields = append(fields, "regions")
		}
		if len(fields) == 0 {
			return nil, nil
		}
		return WorldUpdated{Fields: fields}, nil
	})
}

// AddToInventory appends item as a new instance. A missing instance id is
// generated.
func (s *Store) AddToInventory(item ItemInstance) (ItemInstance, error) {
	if item.ItemID == "" {
		return ItemInstance{}, Invariantf("item instance has no item id")
	}
	if item.Quantity <= 0 {
		return ItemInstance{}, Invariantf("item quantity must be positive, got %d", item.Quantity)
	}
	if item.InstanceID == "" {
		item.InstanceID = uuid.New().String()
	}
	item = item.clone()

	err := s.mutate(func(g *GameState) (Event, error) {
		if _, ok := g.Player.FindItem(item.InstanceID); ok {
			return nil, Invariantf("instance %q already in inventory", item.InstanceID)
		}
		g.Player.Inventory = append(g.Player.Inventory, item)
		return InventoryChanged{Added: []ItemInstance{item.clone()}}, nil
	})
	return item, err
}

// RemoveFromInventory takes qty units from one instance. An instance that
// reaches zero is removed entirely.
func (s *Store) RemoveFromInventory(instanceID string, qty int) (ItemInstance, error) {
	if qty <= 0 {
		return ItemInstance{}, Invariantf("remove quantity must be positive, got %d", qty)
	}

	var removed ItemInstance
	err := s.mutate(func(g *GameState) (Event, error) {
		idx := slices.IndexFunc(g.Player.Inventory, func(it ItemInstance) bool { return it.InstanceID == instanceID })
		if idx < 0 {
			return nil, Fail(ErrItemNotFound, "that item is not in your inventory")
		}
		it := &g.Player.Inventory[idx]
		if it.Quantity < qty {
			return nil, Fail(ErrInsufficientQuantity, "you only have %d %s", it.Quantity, it.Name)
		}

		removed = it.clone()
		removed.Quantity = qty
		it.Quantity -= qty
		if it.Quantity == 0 {
			g.Player.Inventory = slices.Delete(g.Player.Inventory, idx, idx+1)
		}
		return InventoryChanged{Removed: []ItemInstance{removed}}, nil
	})
	return removed, err
}

// ConsumeItems removes every listed amount, drawing from instances in
// inventory order, or removes nothing if any amount is short.
func (s *Store) ConsumeItems(amounts []ItemAmount) ([]ItemInstance, error) {
	need := map[string]int{}
	var order []string
	for _, a := range amounts {
		if a.Quantity <= 0 {
			return nil, Invariantf("consume quantity for %q must be positive", a.Item)
		}
		if _, ok := need[a.Item]; !ok {
			order = append(order, a.Item)
		}
		need[a.Item] += a.Quantity
	}

	var removed []ItemInstance
	err := s.mutate(func(g *GameState) (Event, error) {
		for _, id := range order {
			if have := g.Player.ItemCount(id); have < need[id] {
				return nil, Fail(ErrInsufficientIngredients, "insufficient ingredients: need %d %s, have %d", need[id], id, have)
			}
		}

		inv := g.Player.Inventory[:0]
		for _, it := range g.Player.Inventory {
			want := need[it.ItemID]
			if want == 0 {
				inv = append(inv, it)
				continue
			}
			take := min(want, it.Quantity)
			need[it.ItemID] -= take

			r := it.clone()
			r.Quantity = take
			removed = append(removed, r)

			it.Quantity -= take
			if it.Quantity > 0 {
				inv = append(inv, it)
			}
		}
		g.Player.Inventory = inv
		return InventoryChanged{Removed: slices.Clone(removed)}, nil
	})
	return removed, err
}

// Equip moves one unit of an inventory instance into slot. Whatever occupied
// the slot goes back to the inventory and is returned.
func (s *Store) Equip(instanceID string, slot Slot) (*ItemInstance, error) {
	if err := slot.Validate(); err != nil {
		return nil, Invariantf("%v", err)
	}

	var previous *ItemInstance
	err := s.mutate(func(g *GameState) (Event, error) {
		idx := slices.IndexFunc(g.Player.Inventory, func(it ItemInstance) bool { return it.InstanceID == instanceID })
		if idx < 0 {
			return nil, Fail(ErrItemNotFound, "that item is not in your inventory")
		}

		item := g.Player.Inventory[idx].clone()
		if item.Quantity > 1 {
			g.Player.Inventory[idx].Quantity--
			item.InstanceID = uuid.New().String()
			item.Quantity = 1
		} else {
			g.Player.Inventory = slices.Delete(g.Player.Inventory, idx, idx+1)
		}

		if old, ok := g.Player.Equipment[slot]; ok {
			g.Player.Inventory = append(g.Player.Inventory, old)
			o := old.clone()
			previous = &o
		}
		g.Player.Equipment[slot] = item

		equipped := item.clone()
		return EquipmentChanged{Slot: slot, Equipped: &equipped, Unequipped: previous}, nil
	})
	return previous, err
}

// Unequip returns the item in slot to the inventory.
func (s *Store) Unequip(slot Slot) (ItemInstance, error) {
	var item ItemInstance
	err := s.mutate(func(g *GameState) (Event, error) {
		old, ok := g.Player.Equipment[slot]
		if !ok {
			return nil, Fail(ErrSlotEmpty, "nothing is equipped in your %s slot", slot)
		}
		delete(g.Player.Equipment, slot)
		g.Player.Inventory = append(g.Player.Inventory, old)
		item = old.clone()

		unequipped := old.clone()
		return EquipmentChanged{Slot: slot, Unequipped: &unequipped}, nil
	})
	return item, err
}

// AddPlayerExperience accumulates xp. While experience covers the current
// level's threshold, the threshold is consumed, the level rises, max health
// grows by MaxHealthPerLevel and the player is fully healed.
func (s *Store) AddPlayerExperience(xp int) (PlayerExperienceChanged, error) {
	if xp < 0 {
		return PlayerExperienceChanged{}, Invariantf("experience grant must not be negative, got %d", xp)
	}

	var out PlayerExperienceChanged
	err := s.mutate(func(g *GameState) (Event, error) {
		pl := &g.Player
		out = PlayerExperienceChanged{Gained: xp, Experience: pl.Experience, Level: pl.Level}
		if xp == 0 {
			return nil, nil
		}

		pl.Experience += xp
		for pl.Experience >= ExpForLevel(pl.Level) {
			pl.Experience -= ExpForLevel(pl.Level)
			pl.Level++
			pl.MaxHealth += MaxHealthPerLevel
			pl.Health = pl.MaxHealth
			out.LevelsGained++
		}

		out.Experience = pl.Experience
		out.Level = pl.Level
		return out, nil
	})
	return out, err
}

// AddSkillExperience grants xp to a known skill, levelling it along the
// SkillCost curve. Unknown skills and non-positive grants are ignored and
// report false.
func (s *Store) AddSkillExperience(skillID string, xp int) (SkillState, bool) {
	base, maxLevel := DefaultSkillBaseCost, 0
	if s.skills != nil {
		if t := s.skills.Get(skillID); t != nil {
			maxLevel = t.MaxLevel
			if t.BaseXpCost > 0 {
				base = t.BaseXpCost
			}
		}
	}

	var out SkillState
	applied := false
	_ = s.mutate(func(g *GameState) (Event, error) {
		sk, ok := g.Player.Skills[skillID]
		if !ok || xp <= 0 {
			out = sk
			return nil, nil
		}

		levels := 0
		sk.Experience += xp
		for maxLevel == 0 || sk.Level < maxLevel {
			cost := SkillCost(base, sk.Level)
			if sk.Experience < cost {
				break
			}
			sk.Experience -= cost
			sk.Level++
			levels++
		}
		if sk.Level > 0 {
			sk.Unlocked = true
		}

		g.Player.Skills[skillID] = sk
		out, applied = sk, true
		return SkillExperienceChanged{SkillID: skillID, Gained: xp, Skill: sk, LevelsGained: levels}, nil
	})
	return out, applied
}

// AddEssence adjusts the player's essence. Spending more than is held fails.
func (s *Store) AddEssence(delta int) (int, error) {
	var total int
	err := s.mutate(func(g *GameState) (Event, error) {
		total = g.Player.Essence
		if delta == 0 {
			return nil, nil
		}
		if total+delta < 0 {
			return nil, Fail(ErrInsufficientEssence, "not enough essence: need %d, have %d", -delta, total)
		}
		g.Player.Essence += delta
		total = g.Player.Essence
		return EssenceChanged{Pool: PlayerEssence, Delta: delta, Total: total}, nil
	})
	return total, err
}

// AddForgerEssence adjusts the forger essence pool. Spending more than is
// held fails.
func (s *Store) AddForgerEssence(delta int) (int, error) {
	var total int
	err := s.mutate(func(g *GameState) (Event, error) {
		total = g.Forger.Essence
		if delta == 0 {
			return nil, nil
		}
		if total+delta < 0 {
			return nil, Fail(ErrInsufficientEssence, "not enough forger essence: need %d, have %d", -delta, total)
		}
		g.Forger.Essence += delta
		total = g.Forger.Essence
		return EssenceChanged{Pool: ForgerEssence, Delta: delta, Total: total}, nil
	})
	return total, err
}

// Heal restores up to amount health without exceeding max health and
// returns how much was restored.
func (s *Store) Heal(amount int) (int, error) {
	if amount < 0 {
		return 0, Invariantf("heal amount must not be negative, got %d", amount)
	}
	var healed int
	err := s.mutate(func(g *GameState) (Event, error) {
		next := min(g.Player.MaxHealth, g.Player.Health+amount)
		healed = next - g.Player.Health
		if healed <= 0 {
			healed = 0
			return nil, nil
		}
		g.Player.Health = next
		return PlayerUpdated{Fields: []string{"health"}}, nil
	})
	return healed, err
}

// AddJournalEntry appends to the journal, stamping id and time when unset.
func (s *Store) AddJournalEntry(e JournalEntry) JournalEntry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_ = s.mutate(func(g *GameState) (Event, error) {
		if e.Time.Day == 0 {
			e.Time = g.World.Time
		}
		g.Player.Journal = append(g.Player.Journal, e)
		return JournalEntryAdded{Entry: e}, nil
	})
	return e
}

// Extension reads the settings extension stored under key into out.
func (s *Store) Extension(key string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings.Extension(key, out)
}

// SetExtension stores v as the settings extension under key.
func (s *Store) SetExtension(key string, v any) error {
	return s.mutate(func(g *GameState) (Event, error) {
		if err := g.Settings.SetExtension(key, v); err != nil {
			return nil, Invariantf("%v", err)
		}
		return ExtensionChanged{Key: key}, nil
	})
}

func (s *Store) DeleteExtension(key string) {
	_ = s.mutate(func(g *GameState) (Event, error) {
		if _, ok := g.Settings.Extensions[key]; !ok {
			return nil, nil
		}
		g.Settings.DeleteExtension(key)
		return ExtensionChanged{Key: key, Deleted: true}, nil
	})
}

// AddAchievement records an achievement once. It reports whether it was new.
func (s *Store) AddAchievement(a Achievement) bool {
	if a.ID == "" {
		return false
	}
	added := false
	_ = s.mutate(func(g *GameState) (Event, error) {
		if g.Player.HasAchievement(a.ID) {
			return nil, nil
		}
		a.UnlockedAt = g.World.Time
		g.Player.Achievements = append(g.Player.Achievements, a)
		added = true
		return AchievementUnlocked{Achievement: a}, nil
	})
	return added
}

func (s *Store) AddQuest(q QuestInstance) error {
	if q.ID == "" {
		return Invariantf("quest instance has no id")
	}
	if q.Status != QuestActive {
		return Invariantf("new quest %q must be active, got %q", q.ID, q.Status)
	}
	q = q.clone()
	return s.mutate(func(g *GameState) (Event, error) {
		if _, ok := g.Player.ActiveQuest(q.ID); ok {
			return nil, Fail(ErrQuestAlreadyActive, "quest already active")
		}
		g.Player.Quests = append(g.Player.Quests, q)
		return QuestAdded{Quest: q.clone()}, nil
	})
}

func activeQuestIndex(g *GameState, questID string) int {
	return slices.IndexFunc(g.Player.Quests, func(q QuestInstance) bool {
		return q.ID == questID && q.Status == QuestActive
	})
}

// UpdateQuestStatus moves the active instance of questID to a terminal status.
func (s *Store) UpdateQuestStatus(questID string, status QuestStatus) error {
	if status != QuestCompleted && status != QuestFailed {
		return Invariantf("quest status %q is not terminal", status)
	}
	return s.mutate(func(g *GameState) (Event, error) {
		idx := activeQuestIndex(g, questID)
		if idx < 0 {
			return nil, Fail(ErrQuestNotActive, "quest %q is not active", questID)
		}
		at := g.World.Time
		g.Player.Quests[idx].Status = status
		g.Player.Quests[idx].ResolvedAt = &at
		return QuestStatusChanged{QuestID: questID, Status: status}, nil
	})
}

// UpdateQuestObjective applies progress to one objective of an active quest
// and reports whether anything changed.
func (s *Store) UpdateQuestObjective(questID, objectiveID string, delta int) (Objective, bool, error) {
	var (
		obj     Objective
		changed bool
	)
	err := s.mutate(func(g *GameState) (Event, error) {
		idx := activeQuestIndex(g, questID)
		if idx < 0 {
			return nil, Fail(ErrQuestNotActive, "quest %q is not active", questID)
		}
		q := &g.Player.Quests[idx]
		oi := slices.IndexFunc(q.Objectives, func(o Objective) bool { return o.ID == objectiveID })
		if oi < 0 {
			return nil, Fail(ErrObjectiveNotFound, "quest %q has no objective %q", questID, objectiveID)
		}

		changed = q.Objectives[oi].ApplyProgress(delta)
		obj = q.Objectives[oi]
		if !changed {
			return nil, nil
		}
		return QuestObjectiveProgressed{QuestID: questID, Objective: obj}, nil
	})
	return obj, changed, err
}

// AdvanceTime moves the calendar forward by minutes.
func (s *Store) AdvanceTime(minutes int) (GameTime, error) {
	if minutes < 0 {
		return GameTime{}, Invariantf("cannot advance time by %d minutes", minutes)
	}
	var now GameTime
	err := s.mutate(func(g *GameState) (Event, error) {
		from := g.World.Time
		now = from
		if minutes == 0 {
			return nil, nil
		}
		now = from.Advance(minutes)
		g.World.Time = now
		return TimeAdvanced{From: from, To: now, Minutes: minutes}, nil
	})
	return now, err
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// AdjustCorruption shifts world corruption, clamped to [0,1].
func (s *Store) AdjustCorruption(delta float64) float64 {
	var level float64
	_ = s.mutate(func(g *GameState) (Event, error) {
		next := clamp01(g.World.CorruptionLevel + delta)
		level = next
		if next == g.World.CorruptionLevel {
			return nil, nil
		}
		g.World.CorruptionLevel = next
		return WorldUpdated{Fields: []string{"corruption_level"}}, nil
	})
	return level
}

// AdjustRegionCorruption shifts one region's corruption, clamped to [0,1].
func (s *Store) AdjustRegionCorruption(regionID string, delta float64) (float64, error) {
	var level float64
	err := s.mutate(func(g *GameState) (Event, error) {
		r, ok := g.World.Regions[regionID]
		if !ok {
			return nil, Fail(ErrRegionNotFound, "region %q not found", regionID)
		}
		next := clamp01(r.CorruptionLevel + delta)
		level = next
		if next == r.CorruptionLevel {
			return nil, nil
		}
		r.CorruptionLevel = next
		g.World.Regions[regionID] = r
		return WorldUpdated{Fields: []string{"regions"}}, nil
	})
	return level, err
}

// DecayRegionCorruption lowers every region's corruption by amount in one
// change.
func (s *Store) DecayRegionCorruption(amount float64) {
	_ = s.mutate(func(g *GameState) (Event, error) {
		changed := false
		for id, r := range g.World.Regions {
			if r.CorruptionLevel <= 0 {
				continue
			}
			r.CorruptionLevel = clamp01(r.CorruptionLevel - amount)
			g.World.Regions[id] = r
			changed = true
		}
		if !changed {
			return nil, nil
		}
		return WorldUpdated{Fields: []string{"regions"}}, nil
	})
}

// AddWorldEvent starts a world event, stamping id and start time when unset.
func (s *Store) AddWorldEvent(e WorldEvent) WorldEvent {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_ = s.mutate(func(g *GameState) (Event, error) {
		if e.StartedAt == 0 {
			e.StartedAt = g.World.Time.Elapsed()
		}
		g.World.Events = append(g.World.Events, e)
		return WorldEventsChanged{Started: []WorldEvent{e}}, nil
	})
	return e
}

// ExpireWorldEvents removes every event that has run out at the current time.
func (s *Store) ExpireWorldEvents() []WorldEvent {
	var ended []WorldEvent
	_ = s.mutate(func(g *GameState) (Event, error) {
		now := g.World.Time.Elapsed()
		kept := g.World.Events[:0]
		for _, e := range g.World.Events {
			if e.Expired(now) {
				ended = append(ended, e)
				continue
			}
			kept = append(kept, e)
		}
		g.World.Events = kept
		if len(ended) == 0 {
			return nil, nil
		}
		return WorldEventsChanged{Ended: slices.Clone(ended)}, nil
	})
	return ended
}

// RemoveWorldEvent ends one event early and reports whether it was active.
func (s *Store) RemoveWorldEvent(id string) bool {
	removed := false
	_ = s.mutate(func(g *GameState) (Event, error) {
		idx := slices.IndexFunc(g.World.Events, func(e WorldEvent) bool { return e.ID == id })
		if idx < 0 {
			return nil, nil
		}
		ended := g.World.Events[idx]
		g.World.Events = slices.Delete(g.World.Events, idx, idx+1)
		removed = true
		return WorldEventsChanged{Ended: []WorldEvent{ended}}, nil
	})
	return removed
}

// UpdateNPCs lets fn edit copies of every NPC and commits the ones whose ids
// it returns. fn runs under the store lock and must not call the store.
func (s *Store) UpdateNPCs(fn func(npcs map[string]*NPC) []string) []string {
	var changed []string
	_ = s.mutate(func(g *GameState) (Event, error) {
		work := make(map[string]*NPC, len(g.NPCs))
		for id, n := range g.NPCs {
			c := n.clone()
			work[id] = &c
		}

		seen := map[string]bool{}
		for _, id := range fn(work) {
			n, ok := work[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			g.NPCs[id] = *n
			changed = append(changed, id)
		}
		if len(changed) == 0 {
			return nil, nil
		}
		sort.Strings(changed)
		return NPCsUpdated{IDs: slices.Clone(changed)}, nil
	})
	return changed
}

// UpsertNPC adds or replaces an NPC.
func (s *Store) UpsertNPC(n NPC) error {
	if n.ID == "" {
		return Invariantf("npc has no id")
	}
	n = n.clone()
	return s.mutate(func(g *GameState) (Event, error) {
		g.NPCs[n.ID] = n
		return NPCsUpdated{IDs: []string{n.ID}}, nil
	})
}

// AddIntervention appends to the forger's intervention history.
func (s *Store) AddIntervention(i Intervention) {
	_ = s.mutate(func(g *GameState) (Event, error) {
		if i.Time.Day == 0 {
			i.Time = g.World.Time
		}
		g.Forger.Interventions = append(g.Forger.Interventions, i)
		return ForgerUpdated{Fields: []string{"interventions"}}, nil
	})
}

// AddCreation records something the forger brought into being.
func (s *Store) AddCreation(c Creation) Creation {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_ = s.mutate(func(g *GameState) (Event, error) {
		if c.Time.Day == 0 {
			c.Time = g.World.Time
		}
		g.Forger.Creations = append(g.Forger.Creations, c)
		return ForgerUpdated{Fields: []string{"creations"}}, nil
	})
	return c
}

func (s *Store) SetToolLevel(toolID string, level int) error {
	if level < 1 {
		return Invariantf("tool level must be at least 1, got %d", level)
	}
	return s.mutate(func(g *GameState) (Event, error) {
		g.Forger.Tools[toolID] = ToolState{Level: level}
		return ForgerUpdated{Fields: []string{"tools"}}, nil
	})
}

// Discover marks a region or landmark as discovered and reports whether it
// was new.
func (s *Store) Discover(kind DiscoveryKind, id string) bool {
	added := false
	_ = s.mutate(func(g *GameState) (Event, error) {
		list := &g.Player.DiscoveredRegions
		if kind == DiscoveredLandmark {
			list = &g.Player.DiscoveredLandmarks
		}
		if slices.Contains(*list, id) {
			return nil, nil
		}
		*list = append(*list, id)
		added = true
		return LocationDiscovered{Target: kind, ID: id}, nil
	})
	return added
}
