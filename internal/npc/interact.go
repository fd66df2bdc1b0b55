package npc

import (
	"fmt"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/rng"
)

type InteractionKind string

const (
	Greet InteractionKind = "greet"
	Trade InteractionKind = "trade"
	Quest InteractionKind = "quest"
	Chat  InteractionKind = "chat"
	Help  InteractionKind = "help"
)

var relationshipGain = map[InteractionKind]int{
	Greet: 1,
	Trade: 2,
	Quest: 3,
	Chat:  1,
	Help:  2,
}

var roleGreetings = map[string]string{
	"merchant":  "Welcome to my shop! See anything that catches your eye?",
	"guard":     "Greetings, citizen. All seems well in our fair settlement.",
	"craftsman": "Ah, a new face! Do you have need of my services?",
	"scholar":   "Welcome, seeker of knowledge. What would you like to discuss?",
	"priest":    "Peace be with you. May the light guide your path.",
	"farmer":    "Good day! Fresh produce available if you're hungry.",
	"child":     "Hi there! Want to play a game?",
	"elder":     "Welcome, young one. Come, sit and listen to an old tale.",
}

var roleChatter = map[string][]string{
	"merchant":  {"Business has been good lately, thanks for asking.", "I've acquired some rare items you might find interesting."},
	"guard":     {"Things have been quiet, which is how we like it.", "Stay out of trouble and we'll all get along fine."},
	"craftsman": {"I'm working on something special right now.", "I've been perfecting a new technique."},
	"scholar":   {"I've made a fascinating discovery in my research.", "Knowledge is the greatest treasure of all."},
	"priest":    {"I've been helping many souls find peace.", "Faith can move mountains, if you truly believe."},
	"farmer":    {"The crops are coming along nicely this season.", "Weather's been cooperating, thankfully."},
	"child":     {"I found the coolest thing today!", "Can you teach me something new?"},
	"elder":     {"In my long years, I've seen many changes.", "There's wisdom in every experience, young one."},
}

var roleHelp = map[string]string{
	"merchant":  "I can offer you goods and news of the trade routes.",
	"guard":     "I can tell you about safety concerns and wanted criminals.",
	"craftsman": "I can repair your gear or teach you a thing or two about crafting.",
	"scholar":   "I can share what I know of the old lore.",
	"priest":    "I can tend your wounds and offer counsel.",
	"farmer":    "I can tell you which herbs grow nearby.",
	"child":     "I know all the secret paths around town!",
	"elder":     "I can tell you of the days before the Nexus stirred.",
}

// Interaction is the NPC's reply and what it did to the relationship.
type Interaction struct {
	NPC                string
	Response           string
	RelationshipChange int
	Relationship       int
}

// Interact has the player talk to an NPC. The NPC remembers the exchange
// and warms to the player by an amount set by the kind of interaction.
func (s *Simulation) Interact(npcID string, kind InteractionKind) (Interaction, error) {
	n, ok := s.store.NPC(npcID)
	if !ok {
		return Interaction{}, game.Fail(game.ErrNPCNotFound, "there is no one here by that name")
	}
	pl := s.store.Player()

	res := Interaction{
		NPC:                n.Name,
		Response:           s.respond(n, pl, kind),
		RelationshipChange: relationshipGain[kind],
	}

	now := s.store.Time()
	s.store.UpdateNPCs(func(npcs map[string]*game.NPC) []string {
		w, ok := npcs[npcID]
		if !ok {
			return nil
		}
		res.Relationship = w.AdjustRelationship(pl.ID, res.RelationshipChange)
		w.Remember(game.Memory{Time: now, Type: "interaction_" + string(kind), Content: fmt.Sprintf("Spoke with %s", pl.Name)})
		return []string{npcID}
	})
	return res, nil
}

func (s *Simulation) respond(n game.NPC, pl game.PlayerState, kind InteractionKind) string {
	switch kind {
	case Greet:
		rel := n.Relationships[pl.ID]
		switch {
		case rel > 50:
			return fmt.Sprintf("Ah, %s! Good to see you again. How have you been?", pl.Name)
		case rel > 25:
			return fmt.Sprintf("Hello again, %s. What brings you back?", pl.Name)
		}
		if g, ok := roleGreetings[n.Role]; ok {
			return g
		}
		return "Well met, traveler. How fares your journey?"
	case Trade:
		if n.Role != "merchant" {
			return fmt.Sprintf("%s chuckles. \"I'm no merchant, but perhaps we can trade stories instead?\"", n.Name)
		}
		return "Ah, a customer! I have many fine wares. What are you looking for today?"
	case Quest:
		return fmt.Sprintf("%s thinks for a moment. \"Nothing specific, but there's always work to be found in town.\"", n.Name)
	case Chat:
		if lines := roleChatter[n.Role]; len(lines) > 0 {
			return lines[rng.Pick(s.rng, len(lines))]
		}
		return "It's a fine day, isn't it?"
	case Help:
		if h, ok := roleHelp[n.Role]; ok {
			return h
		}
		return "I'm not sure how I can help, but I'll keep an ear out."
	}
	return fmt.Sprintf("%s looks at you with interest.", n.Name)
}
