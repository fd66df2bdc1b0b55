package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-saga/internal/driver"
	"github.com/pixil98/go-saga/internal/messaging"
	"github.com/pixil98/go-saga/internal/save"
	"github.com/pixil98/go-saga/internal/session"
)

// openSaves builds the save backend for BuildWorkers.
var openSaves = func(c *SavesConfig) (save.Backend, io.Closer, error) {
	return c.buildBackend()
}

func BuildWorkers(config interface{}) (_ service.WorkerList, err error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	if cfg.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("parsing log_level: %w", err)
		}
		slog.SetLogLoggerLevel(lvl)
	}

	dict, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}

	backend, closer, err := openSaves(&cfg.Saves)
	if err != nil {
		return nil, fmt.Errorf("opening saves: %w", err)
	}
	defer func() {
		if err != nil && closer != nil {
			if cerr := closer.Close(); cerr != nil {
				slog.Warn("closing saves", "error", cerr)
			}
		}
	}()

	sess, err := session.New(dict, session.Options{
		Game:        cfg.Session.newGame(),
		Seed:        cfg.Session.Seed,
		Schedule:    cfg.schedule(),
		Settlement:  cfg.Session.settlement(),
		SaveBackend: backend,
		DriverOpts:  []driver.GameDriverOpt{driver.WithTickLength(cfg.tickLength())},
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	if err := resume(sess, cfg.Session.Resume); err != nil {
		return nil, err
	}

	p := sess.Store.Player()
	slog.Info("session ready",
		"player", p.Name,
		"role", p.Role,
		"location", p.Location,
		"npcs", len(sess.Store.NPCIDs()),
		"forger_tools", forgerTools(sess.Forge))

	workers := service.WorkerList{
		"session": &sessionWorker{session: sess, closer: closer},
	}

	if cfg.Nats.Enabled {
		srv, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		workers["nats"] = srv
		workers["mirror"] = &mirrorWorker{
			server: srv,
			mirror: messaging.NewMirror(cfg.Nats.Session, srv, sess.Store, sess.Driver),
		}
	}

	return workers, nil
}

func resume(sess *session.Session, key string) error {
	if key == "" {
		return nil
	}
	if sess.Saves == nil {
		return fmt.Errorf("resume requires a saves backend")
	}

	ctx := context.Background()
	var err error
	if key == resumeQuick {
		_, err = sess.Saves.QuickLoad(ctx)
	} else {
		_, err = sess.Saves.Load(ctx, key)
	}
	if err != nil {
		return fmt.Errorf("resuming %q: %w", key, err)
	}
	return nil
}

// sessionWorker runs the game loop and releases the save backend after it.
type sessionWorker struct {
	session *session.Session
	closer  io.Closer
}

func (w *sessionWorker) Start(ctx context.Context) error {
	err := w.session.Start(ctx)
	if w.closer != nil {
		if cerr := w.closer.Close(); cerr != nil {
			slog.WarnContext(ctx, "closing saves", "error", cerr)
		}
	}
	return err
}

// mirrorWorker waits for the nats server before attaching the mirror.
type mirrorWorker struct {
	server *messaging.NatsServer
	mirror *messaging.Mirror
}

func (w *mirrorWorker) Start(ctx context.Context) error {
	select {
	case <-w.server.Ready():
	case <-ctx.Done():
		return nil
	}
	return w.mirror.Start(ctx)
}
