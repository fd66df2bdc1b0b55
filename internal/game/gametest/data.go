package gametest

import (
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/storage"
)

func Items() map[string]*game.ItemTemplate {
	return map[string]*game.ItemTemplate{
		"healing_potion": {Name: "Healing Potion", Type: game.ItemTypeConsumable, Rarity: "common", Value: 50, Effect: "effect_restore_health_minor"},
		"bread":          {Name: "Bread", Type: game.ItemTypeConsumable, Rarity: "common", Value: 5, Effect: "effect_restore_health_small"},
		"ancient_tablet": {Name: "Ancient Tablet", Type: game.ItemTypeArtifact, Rarity: "rare", Value: 200, Effect: "effect_unlock_lore_fragment"},
		"steel_sword": {
			Name: "Steel Sword", Type: game.ItemTypeWeapon, Rarity: "uncommon", Value: 150,
			Damage:                &game.DamageRange{Min: 10, Max: 15},
			AttributeRequirements: map[string]int{game.AttrStrength: 10},
		},
		"leather_vest": {
			Name: "Leather Vest", Type: game.ItemTypeArmor, Rarity: "common", Value: 75, DefenseRating: 5,
			AttributeRequirements: map[string]int{game.AttrDexterity: 10},
		},
		"iron_helm":  {Name: "Iron Helm", Type: game.ItemTypeHelmet, Value: 40, DefenseRating: 2},
		"giant_maul": {Name: "Giant Maul", Type: game.ItemTypeWeapon, Value: 300, Damage: &game.DamageRange{Min: 20, Max: 30}, AttributeRequirements: map[string]int{game.AttrStrength: 18}},
		"silver_ring": {
			Name: "Silver Ring", Type: game.ItemTypeRing, Value: 40,
			AttributeModifiers: map[string]int{game.AttrDexterity: 1},
		},
		"aether_crystal": {Name: "Aether Crystal", Type: game.ItemTypeMaterial, Rarity: "rare", Value: 100},
		"rabbit_pelt":    {Name: "Rabbit Pelt", Type: game.ItemTypeMaterial, Value: 5},
		"small_bone":     {Name: "Small Bone", Type: game.ItemTypeMaterial, Value: 1},
		"dire_wolf_pelt": {Name: "Dire Wolf Pelt", Type: game.ItemTypeMaterial, Value: 20},
		"large_bone":     {Name: "Large Bone", Type: game.ItemTypeMaterial, Value: 3},
		"wolf_fang":      {Name: "Wolf Fang", Type: game.ItemTypeMaterial, Value: 8},
		"iron_ore":       {Name: "Iron Ore", Type: game.ItemTypeMaterial, Value: 10},
		"iron_ingot":     {Name: "Iron Ingot", Type: game.ItemTypeMaterial, Value: 25},
		"wood":           {Name: "Wood", Type: game.ItemTypeMaterial, Value: 2},
		"healing_herbs":  {Name: "Healing Herbs", Type: game.ItemTypeMaterial, Value: 4},
		"pure_water":     {Name: "Pure Water", Type: game.ItemTypeMaterial, Value: 1},
		"wheat":          {Name: "Wheat", Type: game.ItemTypeMaterial, Value: 1},
		"oven":           {Name: "Oven", Type: game.ItemTypeTool, Value: 60},
	}
}

func Effects() map[string]*game.EffectTemplate {
	return map[string]*game.EffectTemplate{
		"effect_restore_health_minor": {Type: game.EffectHeal, Amount: 10, Description: "Restores a little health."},
		"effect_restore_health_small": {Type: game.EffectHeal, Amount: 5, Description: "Restores a sliver of health."},
		"effect_unlock_lore_fragment": {Type: game.EffectLore, Description: "Reveals a forgotten fragment of lore."},
		"effect_base_damage_weapon":   {Type: game.EffectDamage, Amount: 12, Description: "Deals physical damage."},
	}
}

func LootTables() map[string]*game.LootTable {
	return map[string]*game.LootTable{
		"loot_table_rabbit_pelt": {
			Entries: []game.LootEntry{
				{Item: "rabbit_pelt", Chance: 0.8, Quantity: game.Range{Min: 1, Max: 2}},
				{Item: "small_bone", Chance: 0.5, Quantity: game.Range{Min: 1, Max: 3}},
			},
			Currency: &game.Range{Min: 1, Max: 5},
		},
		"loot_table_dire_wolf_pelt": {
			Entries: []game.LootEntry{
				{Item: "dire_wolf_pelt", Chance: 0.7, Quantity: game.Range{Min: 1, Max: 1}},
				{Item: "large_bone", Chance: 0.6, Quantity: game.Range{Min: 1, Max: 2}},
				{Item: "wolf_fang", Chance: 0.3, Quantity: game.Range{Min: 1, Max: 1}},
			},
			Currency: &game.Range{Min: 10, Max: 25},
		},
	}
}

func Creatures() map[string]*game.CreatureTemplate {
	return map[string]*game.CreatureTemplate{
		"dire_wolf": {
			Name:           "Dire Wolf",
			BaseAttributes: game.Attributes{Strength: 15, Dexterity: 14, Constitution: 12, Intelligence: 6, Wisdom: 10, Charisma: 6},
			LootTable:      storage.NewSmartIdentifier[*game.LootTable]("loot_table_dire_wolf_pelt"),
		},
		"echo_wraith": {
			Name:           "Echo Wraith",
			BaseAttributes: game.Attributes{Strength: 8, Dexterity: 16, Constitution: 6, Intelligence: 12, Wisdom: 14, Charisma: 4},
			LootTable:      storage.NewSmartIdentifier[*game.LootTable]("loot_table_rabbit_pelt"),
		},
	}
}

func Skills() map[string]*game.SkillTemplate {
	return map[string]*game.SkillTemplate{
		"soul_resonance":      {Name: "Soul Resonance", Category: "meta-physical", MaxLevel: 15, BaseXpCost: 100},
		"wilderness_survival": {Name: "Wilderness Survival", Category: "survival", MaxLevel: 10, BaseXpCost: 80},
		"faction_diplomacy":   {Name: "Faction Diplomacy", Category: "social", MaxLevel: 12, BaseXpCost: 120},
		"primordial_crafting": {Name: "Primordial Crafting", Category: "crafting", MaxLevel: 20, BaseXpCost: 150},
		"cosmic_insight":      {Name: "Cosmic Insight", Category: "insight", MaxLevel: 18, BaseXpCost: 130},
	}
}

func Regions() map[string]*game.RegionTemplate {
	return map[string]*game.RegionTemplate{
		"TheCentralNexus": {
			Name: "The Central Nexus", ThreatLevel: 4, InitialPopulation: 250,
			Neighbors:              []string{"TheLuminousPlains", "TheShatteredPeaks"},
			SpawnableCreatureTypes: []string{"echo_wraith"},
			Resources:              []string{"aether_crystal"},
		},
		"TheLuminousPlains": {
			Name: "The Luminous Plains", ThreatLevel: 1, InitialPopulation: 150,
			Neighbors:              []string{"TheCentralNexus", "TheShatteredPeaks"},
			SpawnableCreatureTypes: []string{"dire_wolf"},
			Resources:              []string{"healing_herbs", "pure_water", "wheat"},
		},
		"TheShatteredPeaks": {
			Name: "The Shattered Peaks", ThreatLevel: 4, InitialPopulation: 25,
			Neighbors:              []string{"TheCentralNexus"},
			SpawnableCreatureTypes: []string{"dire_wolf", "echo_wraith"},
			Resources:              []string{"iron_ore"},
		},
	}
}

func Landmarks() map[string]*game.LandmarkTemplate {
	return map[string]*game.LandmarkTemplate{
		"ancient_nexus_tower": {
			Name: "Ancient Nexus Tower", Region: "TheCentralNexus", Artifact: "aether_crystal",
			Lore: "The tower stood before the oldest memory of the saga.",
		},
		"sunlit_shrine": {
			Name: "Sunlit Shrine", Region: "TheLuminousPlains", Artifact: "ancient_tablet",
			Lore: "Pilgrims leave their names carved in the shrine steps.",
		},
	}
}

func Quests() map[string]*game.QuestTemplate {
	return map[string]*game.QuestTemplate{
		"quest_explore_region": {
			Name: "Explore the Region", Type: game.QuestTypeExploration,
			Objectives: []game.ObjectiveTemplate{
				{ID: "explore_objective", Description: "Visit the Luminous Plains", Type: game.ObjectiveVisitLocation, Target: "TheLuminousPlains"},
			},
			Rewards: game.Rewards{Experience: 50, Essence: 10},
		},
		"quest_gather_resources": {
			Name: "Gather Resources", Type: game.QuestTypeGathering,
			Objectives: []game.ObjectiveTemplate{
				{ID: "gather_objective", Description: "Gather 5 healing herbs", Type: game.ObjectiveGatherItem, Target: "healing_herbs", RequiredQuantity: 5},
			},
			Rewards: game.Rewards{Experience: 30, Essence: 5},
		},
		"quest_defeat_creatures": {
			Name: "Defeat Creatures", Type: game.QuestTypeCombat,
			Objectives: []game.ObjectiveTemplate{
				{ID: "defeat_objective", Description: "Defeat 3 dire wolves", Type: game.ObjectiveDefeatEnemy, Target: "dire_wolf", RequiredQuantity: 3},
			},
			Rewards: game.Rewards{Experience: 75, Essence: 15, Items: []game.ItemAmount{{Item: "iron_ore", Quantity: 3}}},
		},
		"quest_ancient_tablet": {
			Name: "The Mysterious Ancient Tablet", Type: game.QuestTypeLore,
			Objectives: []game.ObjectiveTemplate{
				{ID: "find_tablet", Description: "Find the ancient tablet", Type: game.ObjectiveFindItem, Target: "ancient_tablet"},
				{ID: "study_tablet", Description: "Study the tablet at the library", Type: game.ObjectiveInteractWithItem, Target: "library_research_table"},
			},
			Rewards: game.Rewards{
				Experience: 100, Essence: 25,
				Items:           []game.ItemAmount{{Item: "ancient_tablet", Quantity: 1}},
				SkillExperience: map[string]int{"cosmic_insight": 20},
			},
			Prerequisites: game.Prerequisites{Skills: map[string]int{"soul_resonance": 3}},
		},
		"quest_nexus_stabilization": {
			Name: "Nexus Stabilization", Type: game.QuestTypeForger,
			Objectives: []game.ObjectiveTemplate{
				{ID: "analyze_fluctuations", Description: "Analyze the nexus fluctuations", Type: game.ObjectiveUseForgerTool, Target: "nexus_analyzer"},
				{ID: "apply_stabilization", Description: "Stabilize the nexus", Type: game.ObjectiveUseForgerTool, Target: "stability_injector"},
			},
			Rewards:       game.Rewards{Experience: 150, Essence: 50, ForgerEssence: 10},
			Prerequisites: game.Prerequisites{Role: game.RoleForger},
		},
	}
}

func QuestChains() map[string]*game.QuestChain {
	return map[string]*game.QuestChain{
		"chain_explorers_path": {
			Name:   "The Explorer's Path",
			Quests: []string{"quest_explore_region", "quest_gather_resources", "quest_defeat_creatures"},
		},
	}
}

func Recipes() map[string]*game.Recipe {
	return map[string]*game.Recipe{
		"craft_iron_sword": {
			Name: "Forge Steel Sword", Category: "weapon",
			Ingredients:  []game.ItemAmount{{Item: "iron_ingot", Quantity: 2}, {Item: "wood", Quantity: 1}},
			Outputs:      []game.ItemAmount{{Item: "steel_sword", Quantity: 1}},
			TimeRequired: 30, Experience: 25,
		},
		"craft_leather_vest": {
			Name: "Stitch Leather Vest", Category: "armor",
			Ingredients:  []game.ItemAmount{{Item: "rabbit_pelt", Quantity: 4}},
			Outputs:      []game.ItemAmount{{Item: "leather_vest", Quantity: 1}},
			TimeRequired: 20, Experience: 15,
		},
		"craft_healing_potion": {
			Name: "Brew Healing Potion", Category: "alchemy",
			Ingredients:  []game.ItemAmount{{Item: "healing_herbs", Quantity: 2}, {Item: "pure_water", Quantity: 1}},
			Outputs:      []game.ItemAmount{{Item: "healing_potion", Quantity: 1}},
			TimeRequired: 10, Experience: 10,
			RequiredLevel: 2,
		},
		"craft_bread": {
			Name: "Bake Bread", Category: "cooking",
			Ingredients:  []game.ItemAmount{{Item: "wheat", Quantity: 3}, {Item: "pure_water", Quantity: 1}},
			Outputs:      []game.ItemAmount{{Item: "bread", Quantity: 2}},
			TimeRequired: 15, Experience: 5,
			ToolRequired: "oven",
		},
	}
}

func Roles() map[string]*game.RoleTemplate {
	return map[string]*game.RoleTemplate{
		"merchant": {
			Names: []string{"Mira", "Tobin"},
			Schedule: []game.ScheduleEntry{
				{Hour: 6, Activity: "open_shop", Location: "market"},
				{Hour: 12, Activity: "lunch_break", Location: "tavern"},
				{Hour: 18, Activity: "close_shop", Location: "market"},
				{Hour: 20, Activity: "socialize", Location: "town_square"},
				{Hour: 22, Activity: "rest", Location: "home"},
			},
			Goals:  []string{"Expand the shop"},
			Traits: []string{"shrewd"},
		},
		"guard": {
			Names: []string{"Brann"},
			Schedule: []game.ScheduleEntry{
				{Hour: 6, Activity: "patrol_start", Location: "gates"},
				{Hour: 12, Activity: "shift_change", Location: "barracks"},
				{Hour: 18, Activity: "evening_patrol", Location: "streets"},
				{Hour: 22, Activity: "rest", Location: "barracks"},
				{Hour: 2, Activity: "night_watch", Location: "walls"},
			},
			Goals: []string{"Keep the gates safe"},
		},
		"default": {
			Names: []string{"Ash"},
			Schedule: []game.ScheduleEntry{
				{Hour: 8, Activity: "work", Location: "generic"},
				{Hour: 12, Activity: "lunch", Location: "tavern"},
				{Hour: 17, Activity: "leisure", Location: "town"},
				{Hour: 21, Activity: "rest", Location: "home"},
			},
		},
	}
}

func WorldEvents() map[string]*game.WorldEventTemplate {
	return map[string]*game.WorldEventTemplate{
		"global_resource_boom": {Name: "Global Resource Boom", Type: "economic", Duration: 1440, ResourceModifier: 0.2},
		"cosmic_plague_outbreak": {
			Name: "Cosmic Plague Outbreak", Type: "disaster", Duration: 1440,
			ResourceModifier: -0.15, CorruptionIncrease: 0.02,
		},
	}
}
