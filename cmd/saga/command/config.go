package command

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-saga/internal/session"
)

type Config struct {
	TickInterval   string         `json:"tick_interval"`
	MinutesPerTick int            `json:"minutes_per_tick"`
	LogLevel       string         `json:"log_level"`
	Storage        StorageConfig  `json:"storage"`
	Session        SessionConfig  `json:"session"`
	Saves          SavesConfig    `json:"saves"`
	Nats           NatsConfig     `json:"nats"`
	Schedule       ScheduleConfig `json:"schedule"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		el.Add(fmt.Errorf("parsing tick_interval: %w", err))
	} else if d < 10*time.Millisecond {
		el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
	}

	if c.MinutesPerTick < 0 {
		el.Add(fmt.Errorf("minutes_per_tick must not be negative"))
	}

	if c.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
			el.Add(fmt.Errorf("parsing log_level: %w", err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Session.validate())
	el.Add(c.Saves.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Schedule.validate())

	return el.Err()
}

func (c *Config) tickLength() time.Duration {
	d, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return time.Second
	}
	return d
}

// ScheduleConfig overrides how many ticks pass between periodic tasks. Zero
// keeps the default.
type ScheduleConfig struct {
	NPCActivity int `json:"npc_activity"`
	NPCMood     int `json:"npc_mood"`
	NPCEvents   int `json:"npc_events"`
	World       int `json:"world"`
	Reflect     int `json:"reflect"`
	AutoSave    int `json:"autosave"`
}

func (c *ScheduleConfig) validate() error {
	el := errors.NewErrorList()
	for name, v := range map[string]int{
		"npc_activity": c.NPCActivity,
		"npc_mood":     c.NPCMood,
		"npc_events":   c.NPCEvents,
		"world":        c.World,
		"reflect":      c.Reflect,
		"autosave":     c.AutoSave,
	} {
		if v < 0 {
			el.Add(fmt.Errorf("schedule.%s must not be negative", name))
		}
	}
	return el.Err()
}

func (c *Config) schedule() session.Schedule {
	return session.Schedule{
		NPCActivity:    c.Schedule.NPCActivity,
		NPCMood:        c.Schedule.NPCMood,
		NPCEvents:      c.Schedule.NPCEvents,
		World:          c.Schedule.World,
		Reflect:        c.Schedule.Reflect,
		AutoSave:       c.Schedule.AutoSave,
		MinutesPerTick: c.MinutesPerTick,
	}
}
