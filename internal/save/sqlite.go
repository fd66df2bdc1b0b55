package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pixil98/go-saga/internal/game"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	version    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	payload    BLOB NOT NULL
)`

// SQLiteStore keeps saves in a single SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating saves table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Put(ctx context.Context, sum Summary, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (key, name, version, created_at, payload)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   name = excluded.name,
		   version = excluded.version,
		   created_at = excluded.created_at,
		   payload = excluded.payload`,
		sum.Key, sum.Name, sum.Version, sum.Timestamp.UTC().UnixMilli(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.Fail(game.ErrSaveNotFound, "no save with key %q", key)
	}
	if err != nil {
		return nil, fmt.Errorf("get save: %w", err)
	}
	return payload, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, version, created_at FROM saves ORDER BY created_at DESC, key DESC`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			created int64
		)
		if err := rows.Scan(&sum.Key, &sum.Name, &sum.Version, &created); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		sum.Timestamp = time.UnixMilli(created).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	if n == 0 {
		return game.Fail(game.ErrSaveNotFound, "no save with key %q", key)
	}
	return nil
}
