package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-saga/internal/driver"
	"github.com/pixil98/go-saga/internal/game"
)

// Remote update types accepted from peers.
const (
	RemoteNPCUpsert    = "npc_upsert"
	RemoteJournal      = "journal"
	RemotePlayerJoined = "player_joined"
	RemotePlayerUpdate = "player_update"
	RemotePlayerLeft   = "player_left"
)

// Submitter runs actions on the game goroutine.
type Submitter interface {
	Submit(ctx context.Context, fn driver.Action) error
}

// Mirror publishes every store event for other players and applies their
// updates through the driver.
type Mirror struct {
	session   string
	bus       Bus
	publisher *Publisher
	store     *game.Store
	submitter Submitter
}

func NewMirror(session string, bus Bus, store *game.Store, submitter Submitter) *Mirror {
	return &Mirror{
		session:   session,
		bus:       bus,
		publisher: NewPublisher(bus, session),
		store:     store,
		submitter: submitter,
	}
}

// Attach subscribes to the store and the remote subject. The returned
// function undoes both.
func (m *Mirror) Attach(ctx context.Context) (func(), error) {
	unsubRemote, err := m.bus.Subscribe(RemoteSubject(m.session), func(data []byte) {
		if err := m.Remote(ctx, data); err != nil {
			slog.WarnContext(ctx, "dropping remote update", "session", m.session, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to remote updates: %w", err)
	}
	unsubStore := m.store.Subscribe("mirror", m.handle)

	return func() {
		unsubStore()
		unsubRemote()
	}, nil
}

// Start attaches and waits for ctx to finish.
func (m *Mirror) Start(ctx context.Context) error {
	detach, err := m.Attach(ctx)
	if err != nil {
		return err
	}
	<-ctx.Done()
	detach()
	return nil
}

func (m *Mirror) handle(ev game.Event) {
	if err := m.publisher.Publish(ev.Kind(), ev); err != nil {
		slog.Warn("mirroring event", "event", ev.Kind(), "error", err)
	}
}

// Remote decodes a peer update and queues it for the game goroutine.
func (m *Mirror) Remote(ctx context.Context, data []byte) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	switch env.Type {
	case RemoteNPCUpsert:
		var n game.NPC
		if err := json.Unmarshal(env.Payload, &n); err != nil {
			return fmt.Errorf("decoding npc: %w", err)
		}
		return m.submitter.Submit(ctx, func(context.Context) error {
			return m.store.UpsertNPC(n)
		})

	case RemoteJournal:
		var e game.JournalEntry
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return fmt.Errorf("decoding journal entry: %w", err)
		}
		return m.submitter.Submit(ctx, func(context.Context) error {
			m.store.AddJournalEntry(e)
			return nil
		})

	case RemotePlayerJoined, RemotePlayerUpdate:
		var p RemotePlayer
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decoding player: %w", err)
		}
		joined := env.Type == RemotePlayerJoined
		return m.submitter.Submit(ctx, func(context.Context) error {
			return upsertPlayer(m.store, p, joined)
		})

	case RemotePlayerLeft:
		var p RemotePlayer
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decoding player: %w", err)
		}
		return m.submitter.Submit(ctx, func(context.Context) error {
			return removePlayer(m.store, p.ID)
		})
	}
	return fmt.Errorf("unknown remote update type %q", env.Type)
}
