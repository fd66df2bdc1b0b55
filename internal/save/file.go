package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/storage"
)

const fileExt = ".json"

// FileStore keeps one JSON file per save in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("save directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save directory: %w", err)
	}
	return &FileStore{dir: filepath.Clean(dir)}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Put(ctx context.Context, sum Summary, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return storage.WriteFileAtomic(s.path(sum.Key), payload, 0o644)
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, game.Fail(game.ErrSaveNotFound, "no save with key %q", key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading save %s: %w", key, err)
	}
	return b, nil
}

// List decodes the header of every save file. Unreadable files are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}

	out := []Summary{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		key := strings.TrimSuffix(e.Name(), fileExt)

		b, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			slog.Warn("skipping save file", "file", e.Name(), "error", err)
			continue
		}
		// Summary shares the snapshot's header fields; state is ignored.
		var sum Summary
		if err := json.Unmarshal(b, &sum); err != nil {
			slog.Warn("skipping save file", "file", e.Name(), "error", err)
			continue
		}
		sum.Key = key
		out = append(out, sum)
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return game.Fail(game.ErrSaveNotFound, "no save with key %q", key)
	}
	if err != nil {
		return fmt.Errorf("deleting save %s: %w", key, err)
	}
	return nil
}
