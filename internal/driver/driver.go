package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
	DefaultQueueSize  = 64
)

// Task is periodic work run on the driver goroutine.
type Task interface {
	Tick(context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc func(context.Context) error

func (f TaskFunc) Tick(ctx context.Context) error { return f(ctx) }

// Action is a unit of external work run on the driver goroutine.
type Action func(context.Context) error

type scheduled struct {
	name  string
	every uint64
	task  Task
}

// GameDriver is the single tick source of a session. Registered tasks run
// every N ticks in registration order. Submitted actions run on the same
// goroutine, so no two units of work ever touch the game state at once.
type GameDriver struct {
	tickLength time.Duration
	queueSize  int
	tasks      []scheduled
	ticks      uint64
	actions    chan queued
}

type queued struct {
	fn   Action
	done chan error
}

func NewGameDriver(opts ...GameDriverOpt) *GameDriver {
	d := &GameDriver{
		tickLength: DefaultTickLength,
		queueSize:  DefaultQueueSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.actions = make(chan queued, d.queueSize)
	return d
}

// Register adds a task that runs on every tick divisible by every. It must be
// called before Start.
func (d *GameDriver) Register(name string, every int, task Task) {
	if every < 1 {
		every = 1
	}
	d.tasks = append(d.tasks, scheduled{name: name, every: uint64(every), task: task})
}

// Ticks returns how many ticks have run.
func (d *GameDriver) Ticks() uint64 {
	return d.ticks
}

// Submit queues fn to run on the driver goroutine. It blocks only while the
// queue is full.
func (d *GameDriver) Submit(ctx context.Context, fn Action) error {
	select {
	case d.actions <- queued{fn: fn}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do queues fn and waits for its result. It must not be called from the
// driver goroutine.
func (d *GameDriver) Do(ctx context.Context, fn Action) error {
	done := make(chan error, 1)
	select {
	case d.actions <- queued{fn: fn, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *GameDriver) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "game driver starting", "tick", d.tickLength, "tasks", len(d.tasks))

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case q := <-d.actions:
			d.run(ctx, q)
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick drains pending actions, then runs every task due on this tick. Task
// failures are logged and never stop the remaining tasks.
func (d *GameDriver) Tick(ctx context.Context) error {
	d.drain(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	d.ticks++
	for _, s := range d.tasks {
		if d.ticks%s.every != 0 {
			continue
		}
		if err := s.task.Tick(ctx); err != nil {
			slog.ErrorContext(ctx, "task failed", "task", s.name, "tick", d.ticks, "error", err)
		}
	}
	return nil
}

func (d *GameDriver) drain(ctx context.Context) {
	for {
		select {
		case q := <-d.actions:
			d.run(ctx, q)
		default:
			return
		}
	}
}

func (d *GameDriver) run(ctx context.Context, q queued) {
	err := q.fn(ctx)
	if q.done != nil {
		q.done <- err
		return
	}
	if err != nil {
		slog.WarnContext(ctx, "submitted action failed", "error", err)
	}
}
