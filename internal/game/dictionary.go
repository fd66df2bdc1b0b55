package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-saga/internal/storage"
)

// Dictionary holds every static data table. The core only reads from it.
type Dictionary struct {
	Items       storage.Storer[*ItemTemplate]
	Effects     storage.Storer[*EffectTemplate]
	LootTables  storage.Storer[*LootTable]
	Creatures   storage.Storer[*CreatureTemplate]
	Skills      storage.Storer[*SkillTemplate]
	Regions     storage.Storer[*RegionTemplate]
	Landmarks   storage.Storer[*LandmarkTemplate]
	Quests      storage.Storer[*QuestTemplate]
	QuestChains storage.Storer[*QuestChain]
	Recipes     storage.Storer[*Recipe]
	Roles       storage.Storer[*RoleTemplate]
	WorldEvents storage.Storer[*WorldEventTemplate]
}

// Resolve links cross-table references and verifies every id exists.
func (d *Dictionary) Resolve() error {
	el := errors.NewErrorList()

	for id, item := range d.Items.GetAll() {
		if item.Effect != "" && d.Effects.Get(item.Effect) == nil {
			el.Add(fmt.Errorf("item %q: effect %q not found", id, item.Effect))
		}
	}

	for id, lt := range d.LootTables.GetAll() {
		for _, e := range lt.Entries {
			if d.Items.Get(e.Item) == nil {
				el.Add(fmt.Errorf("loot table %q: item %q not found", id, e.Item))
			}
		}
	}

	for id, c := range d.Creatures.GetAll() {
		if err := c.LootTable.Resolve(d.LootTables); err != nil {
			el.Add(fmt.Errorf("creature %q: %w", id, err))
		}
	}

	for id, r := range d.Regions.GetAll() {
		for _, n := range r.Neighbors {
			if d.Regions.Get(n) == nil {
				el.Add(fmt.Errorf("region %q: neighbor %q not found", id, n))
			}
		}
		for _, c := range r.SpawnableCreatureTypes {
			if d.Creatures.Get(c) == nil {
				el.Add(fmt.Errorf("region %q: creature %q not found", id, c))
			}
		}
		for _, res := range r.Resources {
			if d.Items.Get(res) == nil {
				el.Add(fmt.Errorf("region %q: resource %q not found", id, res))
			}
		}
	}

	for id, l := range d.Landmarks.GetAll() {
		if d.Regions.Get(l.Region) == nil {
			el.Add(fmt.Errorf("landmark %q: region %q not found", id, l.Region))
		}
		if l.Artifact != "" && d.Items.Get(l.Artifact) == nil {
			el.Add(fmt.Errorf("landmark %q: artifact %q not found", id, l.Artifact))
		}
	}

	for id, r := range d.Recipes.GetAll() {
		for _, a := range append(append([]ItemAmount{}, r.Ingredients...), r.Outputs...) {
			if d.Items.Get(a.Item) == nil {
				el.Add(fmt.Errorf("recipe %q: item %q not found", id, a.Item))
			}
		}
		for s := range r.RequiredSkills {
			if d.Skills.Get(s) == nil {
				el.Add(fmt.Errorf("recipe %q: skill %q not found", id, s))
			}
		}
	}

	for id, q := range d.Quests.GetAll() {
		for _, it := range q.Rewards.Items {
			if d.Items.Get(it.Item) == nil {
				el.Add(fmt.Errorf("quest %q: reward item %q not found", id, it.Item))
			}
		}
		for _, pre := range q.Prerequisites.Quests {
			if d.Quests.Get(pre) == nil {
				el.Add(fmt.Errorf("quest %q: prerequisite quest %q not found", id, pre))
			}
		}
	}

	for id, c := range d.QuestChains.GetAll() {
		for _, q := range c.Quests {
			if d.Quests.Get(q) == nil {
				el.Add(fmt.Errorf("quest chain %q: quest %q not found", id, q))
			}
		}
	}

	return el.Err()
}

// Item looks up an item template, failing with ErrItemNotFound.
func (d *Dictionary) Item(id string) (*ItemTemplate, error) {
	t := d.Items.Get(id)
	if t == nil {
		return nil, Fail(ErrItemNotFound, "item %q not found", id)
	}
	return t, nil
}

// Region looks up a region template, failing with ErrRegionNotFound.
func (d *Dictionary) Region(id string) (*RegionTemplate, error) {
	t := d.Regions.Get(id)
	if t == nil {
		return nil, Fail(ErrRegionNotFound, "region %q not found", id)
	}
	return t, nil
}

// Creature looks up a creature template, failing with ErrCreatureNotFound.
func (d *Dictionary) Creature(id string) (*CreatureTemplate, error) {
	t := d.Creatures.Get(id)
	if t == nil {
		return nil, Fail(ErrCreatureNotFound, "creature %q not found", id)
	}
	return t, nil
}

// Quest looks up a quest template, failing with ErrQuestNotFound.
func (d *Dictionary) Quest(id string) (*QuestTemplate, error) {
	t := d.Quests.Get(id)
	if t == nil {
		return nil, Fail(ErrQuestNotFound, "quest %q not found", id)
	}
	return t, nil
}
