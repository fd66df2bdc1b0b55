package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-saga/internal/forger"
	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/npc"
)

const DefaultForgerEssence = 100

type SessionConfig struct {
	PlayerName  string `json:"player_name"`
	Role        string `json:"role"`
	StartRegion string `json:"start_region"`
	Seed        uint64 `json:"seed"`

	// ForgerEssence seeds the forger pool. Zero takes the default.
	ForgerEssence int `json:"forger_essence"`

	// Settlement sizes each region's starting population. Unset uses
	// npc.SettlementSize.
	Settlement *game.Range `json:"settlement"`

	// Resume loads a save before the game starts: a save key, or "quick" for
	// the latest quick save.
	Resume string `json:"resume"`
}

const resumeQuick = "quick"

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.Role != "" {
		el.Add(game.Role(c.Role).Validate())
	}
	if c.ForgerEssence < 0 {
		el.Add(fmt.Errorf("forger_essence must not be negative"))
	}
	if c.Settlement != nil {
		if err := c.Settlement.Validate(); err != nil {
			el.Add(fmt.Errorf("settlement: %w", err))
		}
	}

	return el.Err()
}

func (c *SessionConfig) newGame() game.NewGameOptions {
	essence := c.ForgerEssence
	if essence == 0 {
		essence = DefaultForgerEssence
	}
	return game.NewGameOptions{
		PlayerName:    c.PlayerName,
		Role:          game.Role(c.Role),
		StartLocation: c.StartRegion,
		ForgerEssence: essence,
	}
}

func (c *SessionConfig) settlement() game.Range {
	if c.Settlement == nil {
		return npc.SettlementSize
	}
	return *c.Settlement
}

// forgerTools is logged at startup so a forger knows what they can use.
func forgerTools(f *forger.Forge) []string {
	var ids []string
	for _, t := range f.Tools() {
		ids = append(ids, t.ID)
	}
	return ids
}
