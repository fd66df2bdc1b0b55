package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/storage"
)

type StorageConfig struct {
	// Root is the data directory. Tables without an explicit path load from
	// a subdirectory of Root named after the table.
	Root string `json:"root"`

	Items       AssetConfig[*game.ItemTemplate]       `json:"items"`
	Effects     AssetConfig[*game.EffectTemplate]     `json:"effects"`
	LootTables  AssetConfig[*game.LootTable]          `json:"loot_tables"`
	Creatures   AssetConfig[*game.CreatureTemplate]   `json:"creatures"`
	Skills      AssetConfig[*game.SkillTemplate]      `json:"skills"`
	Regions     AssetConfig[*game.RegionTemplate]     `json:"regions"`
	Landmarks   AssetConfig[*game.LandmarkTemplate]   `json:"landmarks"`
	Quests      AssetConfig[*game.QuestTemplate]      `json:"quests"`
	QuestChains AssetConfig[*game.QuestChain]         `json:"quest_chains"`
	Recipes     AssetConfig[*game.Recipe]             `json:"recipes"`
	Roles       AssetConfig[*game.RoleTemplate]       `json:"roles"`
	WorldEvents AssetConfig[*game.WorldEventTemplate] `json:"world_events"`
}

func (c *StorageConfig) BuildDictionary() (*game.Dictionary, error) {
	var err error
	dict := &game.Dictionary{}

	if dict.Items, err = c.Items.BuildFileStore(c.Root, "items"); err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	if dict.Effects, err = c.Effects.BuildFileStore(c.Root, "effects"); err != nil {
		return nil, fmt.Errorf("creating effect store: %w", err)
	}
	if dict.LootTables, err = c.LootTables.BuildFileStore(c.Root, "loot_tables"); err != nil {
		return nil, fmt.Errorf("creating loot table store: %w", err)
	}
	if dict.Creatures, err = c.Creatures.BuildFileStore(c.Root, "creatures"); err != nil {
		return nil, fmt.Errorf("creating creature store: %w", err)
	}
	if dict.Skills, err = c.Skills.BuildFileStore(c.Root, "skills"); err != nil {
		return nil, fmt.Errorf("creating skill store: %w", err)
	}
	if dict.Regions, err = c.Regions.BuildFileStore(c.Root, "regions"); err != nil {
		return nil, fmt.Errorf("creating region store: %w", err)
	}
	if dict.Landmarks, err = c.Landmarks.BuildFileStore(c.Root, "landmarks"); err != nil {
		return nil, fmt.Errorf("creating landmark store: %w", err)
	}
	if dict.Quests, err = c.Quests.BuildFileStore(c.Root, "quests"); err != nil {
		return nil, fmt.Errorf("creating quest store: %w", err)
	}
	if dict.QuestChains, err = c.QuestChains.BuildFileStore(c.Root, "quest_chains"); err != nil {
		return nil, fmt.Errorf("creating quest chain store: %w", err)
	}
	if dict.Recipes, err = c.Recipes.BuildFileStore(c.Root, "recipes"); err != nil {
		return nil, fmt.Errorf("creating recipe store: %w", err)
	}
	if dict.Roles, err = c.Roles.BuildFileStore(c.Root, "roles"); err != nil {
		return nil, fmt.Errorf("creating role store: %w", err)
	}
	if dict.WorldEvents, err = c.WorldEvents.BuildFileStore(c.Root, "world_events"); err != nil {
		return nil, fmt.Errorf("creating world event store: %w", err)
	}

	if err := dict.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return dict, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.Validate(c.Root, "items"))
	el.Add(c.Effects.Validate(c.Root, "effects"))
	el.Add(c.LootTables.Validate(c.Root, "loot_tables"))
	el.Add(c.Creatures.Validate(c.Root, "creatures"))
	el.Add(c.Skills.Validate(c.Root, "skills"))
	el.Add(c.Regions.Validate(c.Root, "regions"))
	el.Add(c.Landmarks.Validate(c.Root, "landmarks"))
	el.Add(c.Quests.Validate(c.Root, "quests"))
	el.Add(c.QuestChains.Validate(c.Root, "quest_chains"))
	el.Add(c.Recipes.Validate(c.Root, "recipes"))
	el.Add(c.Roles.Validate(c.Root, "roles"))
	el.Add(c.WorldEvents.Validate(c.Root, "world_events"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) path(root, name string) string {
	if c.Path != "" || root == "" {
		return c.Path
	}
	return filepath.Join(root, name)
}

func (c *AssetConfig[T]) Validate(root, name string) error {
	p := c.path(root, name)
	if p == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, p, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore(root, name string) (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.path(root, name))
}
