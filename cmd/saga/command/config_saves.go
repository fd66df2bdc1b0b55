package command

import (
	"fmt"
	"io"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-saga/internal/save"
)

const (
	SaveBackendFile   = "file"
	SaveBackendSQLite = "sqlite"
)

// SavesConfig picks where snapshots go. An empty backend disables saving.
type SavesConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

func (c *SavesConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Backend {
	case "":
	case SaveBackendFile, SaveBackendSQLite:
		if c.Path == "" {
			el.Add(fmt.Errorf("saves: path is required for the %s backend", c.Backend))
		}
	default:
		el.Add(fmt.Errorf("saves: unknown backend %q", c.Backend))
	}

	return el.Err()
}

// buildBackend returns the configured backend and a closer for it. Both are
// nil when saving is disabled.
func (c *SavesConfig) buildBackend() (save.Backend, io.Closer, error) {
	switch c.Backend {
	case SaveBackendFile:
		fs, err := save.NewFileStore(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return fs, nil, nil
	case SaveBackendSQLite:
		db, err := save.OpenSQLite(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	}
	return nil, nil, nil
}
