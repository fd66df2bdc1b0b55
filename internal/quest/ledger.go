// Package quest tracks quest acceptance, objective progress and rewards.
package quest

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/narrative"
)

// ItemGranter creates reward items without reporting them as pickups.
type ItemGranter interface {
	Grant(itemID string, qty int) (game.ItemInstance, error)
}

// Journal records narrative entries.
type Journal interface {
	Record(kind narrative.Kind, data any) (game.JournalEntry, bool)
}

// Ledger is the quest subsystem. It implements game.ProgressTracker.
type Ledger struct {
	store   *game.Store
	dict    *game.Dictionary
	items   ItemGranter
	journal Journal
}

func NewLedger(store *game.Store, dict *game.Dictionary, items ItemGranter, journal Journal) *Ledger {
	return &Ledger{store: store, dict: dict, items: items, journal: journal}
}

var _ game.ProgressTracker = (*Ledger)(nil)

// Accept starts questID for the player.
func (l *Ledger) Accept(questID string) (game.QuestInstance, error) {
	t, err := l.dict.Quest(questID)
	if err != nil {
		return game.QuestInstance{}, err
	}

	pl := l.store.Player()
	if _, ok := pl.ActiveQuest(questID); ok {
		return game.QuestInstance{}, game.Fail(game.ErrQuestAlreadyActive, "quest already active")
	}
	if pl.HasCompleted(questID) {
		return game.QuestInstance{}, game.Fail(game.ErrQuestAlreadyCompleted, "quest already completed")
	}
	if unmet := unmetPrerequisite(t.Prerequisites, pl); unmet != "" {
		return game.QuestInstance{}, game.Fail(game.ErrQuestPrerequisites, "you do not meet the requirements for %s: %s", t.Name, unmet)
	}

	q := game.NewQuestInstance(questID, t, l.store.Time())
	if err := l.store.AddQuest(q); err != nil {
		return game.QuestInstance{}, err
	}
	l.record(narrative.QuestAccepted, q)
	return q, nil
}

// unmetPrerequisite describes the first gate p fails, or "" when all pass.
func unmetPrerequisite(p game.Prerequisites, pl game.PlayerState) string {
	if p.Level > 0 && pl.Level < p.Level {
		return fmt.Sprintf("requires level %d", p.Level)
	}
	skills := make([]string, 0, len(p.Skills))
	for id := range p.Skills {
		skills = append(skills, id)
	}
	slices.Sort(skills)
	for _, id := range skills {
		if pl.SkillLevel(id) < p.Skills[id] {
			return fmt.Sprintf("requires %s level %d", strings.ReplaceAll(id, "_", " "), p.Skills[id])
		}
	}
	if p.Role != "" && pl.Role != p.Role {
		return fmt.Sprintf("requires the %s role", p.Role)
	}
	for _, q := range p.Quests {
		if !pl.HasCompleted(q) {
			return fmt.Sprintf("requires completing %s", q)
		}
	}
	return ""
}

// Track applies ev to every matching objective of every active quest.
// Quests whose objectives all complete are completed on the spot.
func (l *Ledger) Track(ev game.ProgressEvent) {
	for _, q := range l.store.Player().Quests {
		if q.Status != game.QuestActive {
			continue
		}
		for _, o := range q.Objectives {
			amount, ok := game.ProgressFor(o, ev)
			if !ok {
				continue
			}
			_, err := l.UpdateObjective(q.ID, o.ID, amount)
			if errors.Is(err, game.ErrQuestNotActive) {
				break
			}
			if err != nil {
				slog.Warn("applying quest progress", "quest", q.ID, "objective", o.ID, "error", err)
			}
		}
	}
}

// ObjectiveUpdate is the outcome of UpdateObjective. Completion is set when
// the update finished the quest.
type ObjectiveUpdate struct {
	Objective  game.Objective
	Changed    bool
	Completion *Completion
}

// UpdateObjective adds progress to one objective.
func (l *Ledger) UpdateObjective(questID, objectiveID string, delta int) (ObjectiveUpdate, error) {
	obj, changed, err := l.store.UpdateQuestObjective(questID, objectiveID, delta)
	if err != nil {
		return ObjectiveUpdate{}, err
	}
	out := ObjectiveUpdate{Objective: obj, Changed: changed}
	if !changed {
		return out, nil
	}

	q, ok := l.store.Player().ActiveQuest(questID)
	if !ok || !q.AllObjectivesComplete() {
		return out, nil
	}
	c, err := l.Complete(questID)
	if err != nil {
		return out, err
	}
	out.Completion = &c
	return out, nil
}

// Granted lists what a completion actually awarded.
type Granted struct {
	Experience      int
	LevelsGained    int
	Essence         int
	Items           []game.ItemInstance
	SkillExperience map[string]int
	ForgerEssence   int
}

type Completion struct {
	Quest   game.QuestInstance
	Granted Granted
	// Next is the following quest of a chain this quest belongs to.
	Next    string
	Message string
}

// Complete closes an active quest whose objectives are all done and grants
// its rewards in order: experience, essence, items, skill experience and,
// for forgers, forger essence.
func (l *Ledger) Complete(questID string) (Completion, error) {
	q, ok := l.store.Player().ActiveQuest(questID)
	if !ok {
		return Completion{}, game.Fail(game.ErrQuestNotActive, "quest %q is not active", questID)
	}
	if !q.AllObjectivesComplete() {
		return Completion{}, game.Fail(game.ErrObjectivesIncomplete, "not all objectives of %s are complete", q.Name)
	}
	if err := l.store.UpdateQuestStatus(questID, game.QuestCompleted); err != nil {
		return Completion{}, err
	}
	q.Status = game.QuestCompleted

	granted, err := l.grant(q.Rewards)
	if err != nil {
		return Completion{}, fmt.Errorf("granting rewards for %s: %w", questID, err)
	}

	l.record(narrative.QuestCompleted, q)
	if q.Type == game.QuestTypeLore || q.Type == game.QuestTypeForger {
		l.store.AddAchievement(game.Achievement{
			ID:          fmt.Sprintf("quest_%s_completed", questID),
			Name:        "Quest Seeker",
			Description: fmt.Sprintf("Completed the quest %s", q.Name),
			Rarity:      "uncommon",
		})
	}

	return Completion{
		Quest:   q,
		Granted: granted,
		Next:    l.nextInChain(questID),
		Message: fmt.Sprintf("Quest %q complete!", q.Name),
	}, nil
}

func (l *Ledger) grant(r game.Rewards) (Granted, error) {
	var g Granted

	if r.Experience > 0 {
		ev, err := l.store.AddPlayerExperience(r.Experience)
		if err != nil {
			return g, err
		}
		g.Experience, g.LevelsGained = r.Experience, ev.LevelsGained
	}

	if r.Essence > 0 {
		if _, err := l.store.AddEssence(r.Essence); err != nil {
			return g, err
		}
		g.Essence = r.Essence
	}

	for _, it := range r.Items {
		inst, err := l.items.Grant(it.Item, it.Quantity)
		if err != nil {
			return g, err
		}
		g.Items = append(g.Items, inst)
	}

	skills := make([]string, 0, len(r.SkillExperience))
	for id := range r.SkillExperience {
		skills = append(skills, id)
	}
	slices.Sort(skills)
	for _, id := range skills {
		if _, ok := l.store.AddSkillExperience(id, r.SkillExperience[id]); ok {
			if g.SkillExperience == nil {
				g.SkillExperience = map[string]int{}
			}
			g.SkillExperience[id] = r.SkillExperience[id]
		}
	}

	if r.ForgerEssence > 0 && l.store.Player().Role == game.RoleForger {
		if _, err := l.store.AddForgerEssence(r.ForgerEssence); err != nil {
			return g, err
		}
		g.ForgerEssence = r.ForgerEssence
	}

	return g, nil
}

// Fail closes an active quest without rewards.
func (l *Ledger) Fail(questID string) error {
	q, ok := l.store.Player().ActiveQuest(questID)
	if !ok {
		return game.Fail(game.ErrQuestNotActive, "quest %q is not active", questID)
	}
	if err := l.store.UpdateQuestStatus(questID, game.QuestFailed); err != nil {
		return err
	}
	l.record(narrative.QuestFailed, q)
	return nil
}

// StartChain accepts the first quest of chainID the player has not yet
// completed. Each quest is only offered once the one before it is done.
func (l *Ledger) StartChain(chainID string) (game.QuestInstance, error) {
	chain := l.dict.QuestChains.Get(chainID)
	if chain == nil {
		return game.QuestInstance{}, game.Fail(game.ErrQuestChainNotFound, "quest chain %q not found", chainID)
	}

	pl := l.store.Player()
	for _, id := range chain.Quests {
		if pl.HasCompleted(id) {
			continue
		}
		return l.Accept(id)
	}
	return game.QuestInstance{}, game.Fail(game.ErrQuestAlreadyCompleted, "you have already completed %s", chain.Name)
}

func (l *Ledger) nextInChain(questID string) string {
	chains := l.dict.QuestChains.GetAll()
	ids := make([]string, 0, len(chains))
	for id := range chains {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		qs := chains[id].Quests
		if i := slices.Index(qs, questID); i >= 0 && i+1 < len(qs) {
			return qs[i+1]
		}
	}
	return ""
}

// Available returns, sorted by id, every quest whose gates pass and which
// is neither active nor completed.
func (l *Ledger) Available() []string {
	pl := l.store.Player()
	var out []string
	for id, t := range l.dict.Quests.GetAll() {
		if _, ok := pl.ActiveQuest(id); ok || pl.HasCompleted(id) {
			continue
		}
		if unmetPrerequisite(t.Prerequisites, pl) != "" {
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Active returns the player's active quests.
func (l *Ledger) Active() []game.QuestInstance {
	var out []game.QuestInstance
	for _, q := range l.store.Player().Quests {
		if q.Status == game.QuestActive {
			out = append(out, q)
		}
	}
	return out
}

func (l *Ledger) record(kind narrative.Kind, data any) {
	if l.journal != nil {
		l.journal.Record(kind, data)
	}
}
