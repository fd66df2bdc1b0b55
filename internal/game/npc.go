package game

import (
	"maps"
	"slices"
)

const (
	// MemoryRetention bounds each NPC's memory log.
	MemoryRetention = 50

	RelationshipMin = -100
	RelationshipMax = 100
)

type Mood string

type ScheduleEntry struct {
	Hour     int    `json:"hour"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type Goal struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
}

type Memory struct {
	Time    GameTime `json:"time"`
	Type    string   `json:"type"`
	Content string   `json:"content"`
}

type NPC struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	Settlement    string          `json:"settlement"`
	Attributes    Attributes      `json:"attributes"`
	Traits        []string        `json:"traits,omitempty"`
	Mood          Mood            `json:"mood"`
	Activity      string          `json:"activity,omitempty"`
	Location      string          `json:"location,omitempty"`
	Schedule      []ScheduleEntry `json:"schedule"`
	Relationships map[string]int  `json:"relationships,omitempty"`
	Memories      []Memory        `json:"memories,omitempty"`
	Goals         []Goal          `json:"goals,omitempty"`
}

// Remember appends a memory, dropping the oldest beyond MemoryRetention.
func (n *NPC) Remember(m Memory) {
	n.Memories = append(n.Memories, m)
	if over := len(n.Memories) - MemoryRetention; over > 0 {
		n.Memories = slices.Clone(n.Memories[over:])
	}
}

// AdjustRelationship shifts the relationship with id, clamped to
// [RelationshipMin, RelationshipMax], and returns the new value.
func (n *NPC) AdjustRelationship(id string, delta int) int {
	if n.Relationships == nil {
		n.Relationships = map[string]int{}
	}
	v := max(RelationshipMin, min(RelationshipMax, n.Relationships[id]+delta))
	n.Relationships[id] = v
	return v
}

func (n NPC) clone() NPC {
	n.Traits = slices.Clone(n.Traits)
	n.Schedule = slices.Clone(n.Schedule)
	n.Relationships = maps.Clone(n.Relationships)
	n.Memories = slices.Clone(n.Memories)
	n.Goals = slices.Clone(n.Goals)
	return n
}
