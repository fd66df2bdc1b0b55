package messaging

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-saga/internal/game"
)

// RosterExtension is the settings extension holding the remote players.
const RosterExtension = "multiplayer"

// RemotePlayer is what peers share about themselves.
type RemotePlayer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      game.Role `json:"role,omitempty"`
	Level     int       `json:"level,omitempty"`
	Region    string    `json:"region,omitempty"`
	Health    int       `json:"health,omitempty"`
	MaxHealth int       `json:"max_health,omitempty"`
	Status    string    `json:"status,omitempty"`
}

type roster map[string]RemotePlayer

func loadRoster(st *game.Store) (roster, error) {
	r := roster{}
	if _, err := st.Extension(RosterExtension, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Players lists the remote players currently in the session, by id.
func Players(st *game.Store) ([]RemotePlayer, error) {
	r, err := loadRoster(st)
	if err != nil {
		return nil, err
	}
	out := make([]RemotePlayer, 0, len(r))
	for _, p := range r {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b RemotePlayer) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// upsertPlayer records p. Joining players are announced in the journal.
func upsertPlayer(st *game.Store, p RemotePlayer, joined bool) error {
	if p.ID == "" {
		return game.Invariantf("remote player needs an id")
	}
	if p.ID == st.Player().ID {
		return nil
	}
	r, err := loadRoster(st)
	if err != nil {
		return err
	}
	_, known := r[p.ID]
	r[p.ID] = p
	if err := st.SetExtension(RosterExtension, r); err != nil {
		return err
	}
	if joined && !known {
		st.AddJournalEntry(game.JournalEntry{
			Category: "multiplayer",
			Title:    fmt.Sprintf("%s joined the world", p.Name),
		})
	}
	return nil
}

func removePlayer(st *game.Store, id string) error {
	r, err := loadRoster(st)
	if err != nil {
		return err
	}
	p, ok := r[id]
	if !ok {
		return nil
	}
	delete(r, id)
	if len(r) == 0 {
		st.DeleteExtension(RosterExtension)
	} else if err := st.SetExtension(RosterExtension, r); err != nil {
		return err
	}
	st.AddJournalEntry(game.JournalEntry{
		Category: "multiplayer",
		Title:    fmt.Sprintf("%s left the world", p.Name),
	})
	return nil
}
