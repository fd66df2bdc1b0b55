// Package save persists whole-game snapshots to a pluggable backend.
package save

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pixil98/go-saga/internal/game"
)

const (
	Version = "1.0.0"

	QuickSaveName = "Quick Save"
	AutoSaveName  = "autosave"

	// AutoSaveKeep is how many autosaves survive pruning.
	AutoSaveKeep = 5
)

// Snapshot is the on-disk form of a save.
type Snapshot struct {
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Name      string          `json:"name"`
	State     *game.GameState `json:"state"`
}

// Summary describes a save without its state.
type Summary struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Backend stores encoded snapshots by key. Missing keys fail with
// game.ErrSaveNotFound.
type Backend interface {
	Put(ctx context.Context, sum Summary, payload []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, key string) error
}

type Manager struct {
	backend Backend
	store   *game.Store
	now     func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

type ManagerOpt func(*Manager)

// WithClock replaces the wall clock used to stamp saves.
func WithClock(now func() time.Time) ManagerOpt {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(backend Backend, store *game.Store, opts ...ManagerOpt) *Manager {
	m := &Manager{
		backend: backend,
		store:   store,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) newKey(ts time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(ts), m.entropy).String()
}

func checkKey(key string) error {
	if _, err := ulid.ParseStrict(key); err != nil {
		return game.Fail(game.ErrSaveNotFound, "no save with key %q", key)
	}
	return nil
}

// Save writes the current state under a new key. An empty name is replaced
// with one based on the date.
func (m *Manager) Save(ctx context.Context, name string) (Summary, error) {
	ts := m.now().UTC()
	if name == "" {
		name = "Save " + ts.Format("2006-01-02 15:04")
	}
	snap := Snapshot{
		Version:   Version,
		Timestamp: ts,
		Name:      name,
		State:     m.store.Snapshot(),
	}
	return m.put(ctx, snap)
}

func (m *Manager) put(ctx context.Context, snap Snapshot) (Summary, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return Summary{}, fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := Summary{
		Key:       m.newKey(snap.Timestamp),
		Name:      snap.Name,
		Version:   snap.Version,
		Timestamp: snap.Timestamp,
	}
	if err := m.backend.Put(ctx, sum, payload); err != nil {
		return Summary{}, fmt.Errorf("writing save %s: %w", sum.Key, err)
	}
	slog.InfoContext(ctx, "game saved", "key", sum.Key, "name", sum.Name)
	return sum, nil
}

func decode(payload []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, game.Fail(game.ErrInvalidSave, "save data is unreadable: %v", err)
	}
	if snap.Version == "" || snap.State == nil {
		return Snapshot{}, game.Fail(game.ErrInvalidSave, "save data is missing its version or state")
	}
	return snap, nil
}

// Load replaces the current state with the save stored under key. Saves
// from another version are loaded anyway.
func (m *Manager) Load(ctx context.Context, key string) (Summary, error) {
	if err := checkKey(key); err != nil {
		return Summary{}, err
	}
	payload, err := m.backend.Get(ctx, key)
	if err != nil {
		return Summary{}, err
	}
	snap, err := decode(payload)
	if err != nil {
		return Summary{}, err
	}
	if snap.Version != Version {
		slog.WarnContext(ctx, "save version mismatch, loading anyway", "key", key, "version", snap.Version, "expected", Version)
	}

	m.store.Replace(snap.State)
	slog.InfoContext(ctx, "game loaded", "key", key, "name", snap.Name)
	return Summary{Key: key, Name: snap.Name, Version: snap.Version, Timestamp: snap.Timestamp}, nil
}

// List returns every save, newest first.
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	saves, err := m.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(saves, func(i, j int) bool {
		if !saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Timestamp.After(saves[j].Timestamp)
		}
		return saves[i].Key > saves[j].Key
	})
	return saves, nil
}

func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return m.backend.Delete(ctx, key)
}

func (m *Manager) QuickSave(ctx context.Context) (Summary, error) {
	return m.Save(ctx, QuickSaveName)
}

// QuickLoad loads the newest quick save.
func (m *Manager) QuickLoad(ctx context.Context) (Summary, error) {
	saves, err := m.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	for _, s := range saves {
		if s.Name == QuickSaveName {
			return m.Load(ctx, s.Key)
		}
	}
	return Summary{}, game.Fail(game.ErrSaveNotFound, "no quick save found")
}

// Export writes the raw save stored under key to w.
func (m *Manager) Export(ctx context.Context, key string, w io.Writer) error {
	if err := checkKey(key); err != nil {
		return err
	}
	payload, err := m.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("exporting save %s: %w", key, err)
	}
	return nil
}

// Import stores a save read from r under a new key.
func (m *Manager) Import(ctx context.Context, r io.Reader) (Summary, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return Summary{}, fmt.Errorf("reading save: %w", err)
	}
	snap, err := decode(payload)
	if err != nil {
		return Summary{}, err
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = m.now().UTC()
	}
	return m.put(ctx, snap)
}

// Prune deletes all but the newest keep saves called name. It returns how
// many were removed.
func (m *Manager) Prune(ctx context.Context, name string, keep int) (int, error) {
	saves, err := m.List(ctx)
	if err != nil {
		return 0, err
	}
	seen, removed := 0, 0
	for _, s := range saves {
		if s.Name != name {
			continue
		}
		seen++
		if seen <= keep {
			continue
		}
		if err := m.backend.Delete(ctx, s.Key); err != nil {
			return removed, fmt.Errorf("pruning save %s: %w", s.Key, err)
		}
		removed++
	}
	if removed > 0 {
		slog.DebugContext(ctx, "pruned saves", "name", name, "removed", removed)
	}
	return removed, nil
}

// AutoSaveTask saves under AutoSaveName each time it runs and keeps only
// the newest AutoSaveKeep autosaves.
type AutoSaveTask struct {
	Manager *Manager
}

func (t AutoSaveTask) Tick(ctx context.Context) error {
	if _, err := t.Manager.Save(ctx, AutoSaveName); err != nil {
		return err
	}
	_, err := t.Manager.Prune(ctx, AutoSaveName, AutoSaveKeep)
	return err
}
