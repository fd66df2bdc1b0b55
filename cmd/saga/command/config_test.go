package command

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/npc"
	"github.com/pixil98/go-saga/internal/save"
)

const dataRoot = "../../../data"

func validConfig() Config {
	return Config{
		TickInterval: "1s",
		Storage:      StorageConfig{Root: dataRoot},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Config)
		expErr string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"bad tick interval": {
			mutate: func(c *Config) { c.TickInterval = "soon" },
			expErr: "parsing tick_interval",
		},
		"tick interval too short": {
			mutate: func(c *Config) { c.TickInterval = "1ms" },
			expErr: "tick_interval must be at least 10ms",
		},
		"bad log level": {
			mutate: func(c *Config) { c.LogLevel = "loud" },
			expErr: "parsing log_level",
		},
		"missing data": {
			mutate: func(c *Config) { c.Storage.Root = filepath.Join(t.TempDir(), "nowhere") },
			expErr: "items: invalid path",
		},
		"tables need a path without a root": {
			mutate: func(c *Config) {
				c.Storage.Root = ""
				c.Storage.Items.Path = filepath.Join(dataRoot, "items")
			},
			expErr: "effects: path is required",
		},
		"unknown role": {
			mutate: func(c *Config) { c.Session.Role = "king" },
			expErr: `unknown role "king"`,
		},
		"bad settlement": {
			mutate: func(c *Config) { c.Session.Settlement = &game.Range{Min: 4, Max: 2} },
			expErr: "settlement: range 4-2 is invalid",
		},
		"unknown save backend": {
			mutate: func(c *Config) { c.Saves.Backend = "tape" },
			expErr: `saves: unknown backend "tape"`,
		},
		"save backend without path": {
			mutate: func(c *Config) { c.Saves.Backend = SaveBackendSQLite },
			expErr: "saves: path is required for the sqlite backend",
		},
		"nats without session": {
			mutate: func(c *Config) { c.Nats.Enabled = true },
			expErr: "nats session is required",
		},
		"nats bad session": {
			mutate: func(c *Config) { c.Nats.Session = "a.b" },
			expErr: `nats session "a.b" must contain only`,
		},
		"negative schedule": {
			mutate: func(c *Config) { c.Schedule.World = -1 },
			expErr: "schedule.world must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestStorageConfig_BuildDictionary(t *testing.T) {
	c := StorageConfig{Root: dataRoot}
	dict, err := c.BuildDictionary()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, role := range []string{"merchant", "guard", "craftsman", "scholar", "priest", "farmer", "child", "elder", npc.DefaultRole} {
		if dict.Roles.Get(role) == nil {
			t.Errorf("role %q missing", role)
		}
	}
	testutil.AssertEqual(t, "bread needs an oven", dict.Recipes.Get("craft_bread").ToolRequired, "oven")
	testutil.AssertEqual(t, "loot resolved", dict.Creatures.Get("dire_wolf").LootTable.Get() != nil, true)
}

func TestSessionConfig_Defaults(t *testing.T) {
	var c SessionConfig
	testutil.AssertEqual(t, "forger essence", c.newGame().ForgerEssence, DefaultForgerEssence)
	testutil.AssertEqual(t, "settlement", c.settlement(), npc.SettlementSize)
}

func TestBuildWorkers(t *testing.T) {
	cfg := validConfig()
	cfg.Session = SessionConfig{Seed: 1, Settlement: &game.Range{}}
	cfg.Saves = SavesConfig{Backend: SaveBackendFile, Path: filepath.Join(t.TempDir(), "saves")}
	cfg.Nats = NatsConfig{Enabled: true, Port: -1, Session: "test"}

	workers, err := BuildWorkers(&cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"session", "nats", "mirror"} {
		if _, ok := workers[name]; !ok {
			t.Errorf("worker %q missing", name)
		}
	}

	cfg.Session.Resume = resumeQuick
	_, err = BuildWorkers(&cfg)
	testutil.AssertErrorContains(t, err, "no quick save found")

	_, err = BuildWorkers("nope")
	testutil.AssertErrorContains(t, err, "unable to cast config")
}

type closeCounter struct {
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestBuildWorkers_ClosesSavesOnFailure(t *testing.T) {
	tests := map[string]struct {
		mutate    func(c *Config)
		expErr    string
		expClosed int
	}{
		"built": {
			mutate:    func(*Config) {},
			expClosed: 0,
		},
		"resume fails": {
			mutate:    func(c *Config) { c.Session.Resume = resumeQuick },
			expErr:    "no quick save found",
			expClosed: 1,
		},
		"session fails": {
			mutate:    func(c *Config) { c.Session.StartRegion = "Atlantis" },
			expErr:    "creating session",
			expClosed: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			closer := &closeCounter{}
			orig := openSaves
			openSaves = func(*SavesConfig) (save.Backend, io.Closer, error) {
				fs, err := save.NewFileStore(filepath.Join(t.TempDir(), "saves"))
				if err != nil {
					return nil, nil, err
				}
				return fs, closer, nil
			}
			t.Cleanup(func() { openSaves = orig })

			cfg := validConfig()
			cfg.Session = SessionConfig{Seed: 1, Settlement: &game.Range{}}
			tt.mutate(&cfg)

			_, err := BuildWorkers(&cfg)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "closed", closer.closed, tt.expClosed)
		})
	}
}
