package driver

import (
	"context"

	"github.com/pixil98/go-saga/internal/game"
)

// ClockTask advances game time by a fixed number of minutes per run.
type ClockTask struct {
	store   *game.Store
	minutes int
}

func NewClockTask(store *game.Store, minutesPerTick int) *ClockTask {
	return &ClockTask{store: store, minutes: minutesPerTick}
}

func (c *ClockTask) Tick(ctx context.Context) error {
	_, err := c.store.AdvanceTime(c.minutes)
	return err
}
