package driver

import "time"

type GameDriverOpt func(*GameDriver)

func WithTickLength(tickLength time.Duration) GameDriverOpt {
	return func(d *GameDriver) {
		d.tickLength = tickLength
	}
}

func WithQueueSize(size int) GameDriverOpt {
	return func(d *GameDriver) {
		if size > 0 {
			d.queueSize = size
		}
	}
}
