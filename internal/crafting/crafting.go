// Package crafting turns ingredients into items along recipes.
package crafting

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

// CraftingSkill speeds up crafting and improves output quality. Every craft
// trains it by the recipe's experience.
const CraftingSkill = "primordial_crafting"

type qualityTier struct {
	quality  game.Quality
	chance   float64
	modifier float64
}

// qualityTiers lists, by minimum skill level, the upgrades rolled in order.
// The first roll that lands wins.
var qualityTiers = []struct {
	minLevel int
	tiers    []qualityTier
}{
	{10, []qualityTier{{game.QualityLegendary, 0.1, 1.5}, {game.QualityExcellent, 0.2, 1.3}, {game.QualityFine, 0.3, 1.1}}},
	{5, []qualityTier{{game.QualityExcellent, 0.1, 1.3}, {game.QualityFine, 0.2, 1.1}}},
	{1, []qualityTier{{game.QualityFine, 0.1, 1.1}}},
}

// Resolver crafts recipes for the player.
type Resolver struct {
	store *game.Store
	dict  *game.Dictionary
	rng   rng.Source
}

func NewResolver(store *game.Store, dict *game.Dictionary, src rng.Source) *Resolver {
	return &Resolver{store: store, dict: dict, rng: src}
}

type Result struct {
	Recipe     string
	Items      []game.ItemInstance
	Quality    game.Quality
	Experience int
	Minutes    int
	Message    string
}

// Craft consumes a recipe's ingredients and grants its outputs. Nothing is
// consumed unless every ingredient is present.
func (r *Resolver) Craft(recipeID string) (Result, error) {
	recipe := r.dict.Recipes.Get(recipeID)
	if recipe == nil {
		return Result{}, game.Fail(game.ErrRecipeNotFound, "recipe %q not found", recipeID)
	}

	pl := r.store.Player()
	if unmet := r.unmet(recipe, pl); unmet != "" {
		return Result{}, game.Fail(game.ErrRequirementsNotMet, "you cannot craft %s: %s", recipe.Name, unmet)
	}

	if _, err := r.store.ConsumeItems(recipe.Ingredients); err != nil {
		return Result{}, err
	}

	skill := pl.SkillLevel(CraftingSkill)
	quality, modifier := r.rollQuality(skill)

	res := Result{Recipe: recipeID, Quality: quality}
	var names []string
	for _, out := range recipe.Outputs {
		t, err := r.dict.Item(out.Item)
		if err != nil {
			return Result{}, err
		}
		inst := game.NewItemInstance(out.Item, t, out.Quantity)
		inst.Quality = quality
		inst.Value = int(math.Floor(float64(inst.Value) * modifier))

		inst, err = r.store.AddToInventory(inst)
		if err != nil {
			return Result{}, err
		}
		res.Items = append(res.Items, inst)
		names = append(names, fmt.Sprintf("%d %s", out.Quantity, t.Name))
	}

	if recipe.Experience > 0 {
		if _, err := r.store.AddPlayerExperience(recipe.Experience); err != nil {
			return Result{}, err
		}
		res.Experience = recipe.Experience
		r.store.AddSkillExperience(CraftingSkill, recipe.Experience)
	}

	res.Minutes = CraftTime(recipe.TimeRequired, skill)
	if _, err := r.store.AdvanceTime(res.Minutes); err != nil {
		return Result{}, err
	}

	res.Message = fmt.Sprintf("You craft %s.", strings.Join(names, " and "))
	if quality != game.QualityNormal {
		res.Message = fmt.Sprintf("You craft %s of %s quality.", strings.Join(names, " and "), quality)
	}
	return res, nil
}

// unmet describes the first requirement pl misses, or "".
func (r *Resolver) unmet(recipe *game.Recipe, pl game.PlayerState) string {
	if pl.Level < recipe.RequiredLevel {
		return fmt.Sprintf("requires level %d", recipe.RequiredLevel)
	}
	skills := make([]string, 0, len(recipe.RequiredSkills))
	for id := range recipe.RequiredSkills {
		skills = append(skills, id)
	}
	slices.Sort(skills)
	for _, id := range skills {
		if pl.SkillLevel(id) < recipe.RequiredSkills[id] {
			return fmt.Sprintf("requires %s level %d", strings.ReplaceAll(id, "_", " "), recipe.RequiredSkills[id])
		}
	}
	if recipe.ToolRequired != "" && pl.ItemCount(recipe.ToolRequired) == 0 {
		name := recipe.ToolRequired
		if t := r.dict.Items.Get(name); t != nil {
			name = t.Name
		}
		return fmt.Sprintf("requires a %s", name)
	}
	return ""
}

func (r *Resolver) rollQuality(skill int) (game.Quality, float64) {
	for _, band := range qualityTiers {
		if skill < band.minLevel {
			continue
		}
		for _, t := range band.tiers {
			if rng.Chance(r.rng, t.chance) {
				return t.quality, t.modifier
			}
		}
		break
	}
	return game.QualityNormal, 1
}

// CraftTime shortens minutes by 5% per crafting skill level, never below one.
func CraftTime(minutes, skill int) int {
	if skill <= 0 {
		return minutes
	}
	return max(1, int(math.Floor(float64(minutes)*(1-0.05*float64(skill)))))
}

type Availability struct {
	Recipe   string
	CanCraft bool
}

// Available lists, sorted by id, the recipes whose level, skill and tool
// requirements the player meets, and whether the ingredients are on hand.
func (r *Resolver) Available() []Availability {
	pl := r.store.Player()
	var out []Availability
	for id, recipe := range r.dict.Recipes.GetAll() {
		if r.unmet(recipe, pl) != "" {
			continue
		}
		can := true
		for _, ing := range recipe.Ingredients {
			if pl.ItemCount(ing.Item) < ing.Quantity {
				can = false
				break
			}
		}
		out = append(out, Availability{Recipe: id, CanCraft: can})
	}
	slices.SortFunc(out, func(a, b Availability) int { return strings.Compare(a.Recipe, b.Recipe) })
	return out
}
