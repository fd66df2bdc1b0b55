package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-saga/internal/game"
	"github.com/pixil98/go-saga/internal/game/gametest"
)

type countingTask struct {
	calls int
	err   error
}

func (c *countingTask) Tick(context.Context) error {
	c.calls++
	return c.err
}

func TestGameDriver_TaskCadence(t *testing.T) {
	tests := map[string]struct {
		every    int
		ticks    int
		expCalls int
	}{
		"every tick":        {every: 1, ticks: 5, expCalls: 5},
		"every third":       {every: 3, ticks: 10, expCalls: 3},
		"non-positive is 1": {every: 0, ticks: 4, expCalls: 4},
		"never reached":     {every: 20, ticks: 5, expCalls: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewGameDriver()
			task := &countingTask{}
			d.Register("count", tt.every, task)

			for range tt.ticks {
				if err := d.Tick(context.Background()); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			testutil.AssertEqual(t, "calls", task.calls, tt.expCalls)
			testutil.AssertEqual(t, "ticks", d.Ticks(), uint64(tt.ticks))
		})
	}
}

func TestGameDriver_FailingTaskDoesNotStopOthers(t *testing.T) {
	d := NewGameDriver()
	failing := &countingTask{err: errors.New("boom")}
	healthy := &countingTask{}
	d.Register("failing", 1, failing)
	d.Register("healthy", 1, healthy)

	for range 3 {
		if err := d.Tick(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	testutil.AssertEqual(t, "failing calls", failing.calls, 3)
	testutil.AssertEqual(t, "healthy calls", healthy.calls, 3)
}

func TestGameDriver_SubmittedActionsRunBeforeTasks(t *testing.T) {
	d := NewGameDriver()
	var order []string
	d.Register("task", 1, TaskFunc(func(context.Context) error {
		order = append(order, "task")
		return nil
	}))

	ctx := context.Background()
	for _, name := range []string{"first", "second"} {
		if err := d.Submit(ctx, func(context.Context) error {
			order = append(order, name)
			return nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := d.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "runs", len(order), 3)
	testutil.AssertEqual(t, "first", order[0], "first")
	testutil.AssertEqual(t, "second", order[1], "second")
	testutil.AssertEqual(t, "last", order[2], "task")
}

func TestGameDriver_TickAfterCancel(t *testing.T) {
	d := NewGameDriver()
	task := &countingTask{}
	d.Register("count", 1, task)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Tick(ctx)
	testutil.AssertErrorContains(t, err, "context canceled")
	testutil.AssertEqual(t, "calls", task.calls, 0)
}

func TestGameDriver_DoWaitsForResult(t *testing.T) {
	d := NewGameDriver(WithTickLength(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- d.Start(ctx) }()

	ran := false
	err := d.Do(ctx, func(context.Context) error {
		ran = true
		return errors.New("rejected")
	})

	testutil.AssertErrorContains(t, err, "rejected")
	testutil.AssertEqual(t, "ran", ran, true)

	cancel()
	if err := <-stopped; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClockTask(t *testing.T) {
	dict := gametest.Dictionary(t)
	st := gametest.NewStore(t, dict, game.RoleWanderer)

	d := NewGameDriver()
	d.Register("clock", 1, NewClockTask(st, 15))
	for range 4 {
		if err := d.Tick(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	testutil.AssertEqual(t, "hour", st.Time().Hour, 9)
	testutil.AssertEqual(t, "minute", st.Time().Minute, 0)
}
