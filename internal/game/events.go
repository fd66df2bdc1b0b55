package game

// Event is the tagged union delivered to store subscribers. Each mutator
// raises exactly one event after its change is fully applied.
type Event interface {
	Kind() string
}

// StateReplaced follows a load or reset.
type StateReplaced struct{}

// StateUpdated follows a shallow top-level merge.
type StateUpdated struct {
	Fields []string
}

type PlayerUpdated struct {
	Fields []string
}

type WorldUpdated struct {
	Fields []string
}

type InventoryChanged struct {
	Added   []ItemInstance
	Removed []ItemInstance
}

type EquipmentChanged struct {
	Slot       Slot
	Equipped   *ItemInstance
	Unequipped *ItemInstance
}

type PlayerExperienceChanged struct {
	Gained       int
	Experience   int
	Level        int
	LevelsGained int
}

type SkillExperienceChanged struct {
	SkillID      string
	Gained       int
	Skill        SkillState
	LevelsGained int
}

type EssencePool string

const (
	PlayerEssence EssencePool = "player"
	ForgerEssence EssencePool = "forger"
)

type EssenceChanged struct {
	Pool  EssencePool
	Delta int
	Total int
}

type JournalEntryAdded struct {
	Entry JournalEntry
}

type AchievementUnlocked struct {
	Achievement Achievement
}

type QuestAdded struct {
	Quest QuestInstance
}

type QuestObjectiveProgressed struct {
	QuestID   string
	Objective Objective
}

type QuestStatusChanged struct {
	QuestID string
	Status  QuestStatus
}

type TimeAdvanced struct {
	From    GameTime
	To      GameTime
	Minutes int
}

type WorldEventsChanged struct {
	Started []WorldEvent
	Ended   []WorldEvent
}

type NPCsUpdated struct {
	IDs []string
}

type ForgerUpdated struct {
	Fields []string
}

// ExtensionChanged follows a write or delete of one settings extension.
type ExtensionChanged struct {
	Key     string
	Deleted bool
}

type DiscoveryKind string

const (
	DiscoveredRegion   DiscoveryKind = "region"
	DiscoveredLandmark DiscoveryKind = "landmark"
)

type LocationDiscovered struct {
	Target DiscoveryKind
	ID     string
}

func (StateReplaced) Kind() string            { return "state_replaced" }
func (StateUpdated) Kind() string             { return "state_updated" }
func (PlayerUpdated) Kind() string            { return "player_updated" }
func (WorldUpdated) Kind() string             { return "world_updated" }
func (InventoryChanged) Kind() string         { return "inventory_changed" }
func (EquipmentChanged) Kind() string         { return "equipment_changed" }
func (PlayerExperienceChanged) Kind() string  { return "player_experience_changed" }
func (SkillExperienceChanged) Kind() string   { return "skill_experience_changed" }
func (EssenceChanged) Kind() string           { return "essence_changed" }
func (JournalEntryAdded) Kind() string        { return "journal_entry_added" }
func (AchievementUnlocked) Kind() string      { return "achievement_unlocked" }
func (QuestAdded) Kind() string               { return "quest_added" }
func (QuestObjectiveProgressed) Kind() string { return "quest_objective_progressed" }
func (QuestStatusChanged) Kind() string       { return "quest_status_changed" }
func (TimeAdvanced) Kind() string             { return "time_advanced" }
func (WorldEventsChanged) Kind() string       { return "world_events_changed" }
func (NPCsUpdated) Kind() string              { return "npcs_updated" }
func (ForgerUpdated) Kind() string            { return "forger_updated" }
func (LocationDiscovered) Kind() string       { return "location_discovered" }
func (ExtensionChanged) Kind() string         { return "extension_changed" }

// On adapts a handler for one event type into a Handler that ignores the rest.
func On[E Event](fn func(E)) Handler {
	return func(ev Event) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	}
}
