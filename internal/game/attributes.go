package game

import (
	"fmt"
	"slices"
)

const (
	AttrStrength     = "strength"
	AttrDexterity    = "dexterity"
	AttrConstitution = "constitution"
	AttrIntelligence = "intelligence"
	AttrWisdom       = "wisdom"
	AttrCharisma     = "charisma"
)

var attributeNames = []string{AttrStrength, AttrDexterity, AttrConstitution, AttrIntelligence, AttrWisdom, AttrCharisma}

// IsAttribute reports whether name is one of the six attribute names.
func IsAttribute(name string) bool {
	return slices.Contains(attributeNames, name)
}

type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultAttributes is the starting spread for a new player.
func DefaultAttributes() Attributes {
	return Attributes{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10}
}

func (a *Attributes) field(name string) *int {
	switch name {
	case AttrStrength:
		return &a.Strength
	case AttrDexterity:
		return &a.Dexterity
	case AttrConstitution:
		return &a.Constitution
	case AttrIntelligence:
		return &a.Intelligence
	case AttrWisdom:
		return &a.Wisdom
	case AttrCharisma:
		return &a.Charisma
	}
	return nil
}

// Get returns the named attribute. Unknown names report false.
func (a Attributes) Get(name string) (int, bool) {
	f := a.field(name)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// Add returns a copy with every modifier folded in. Unknown names are ignored.
func (a Attributes) Add(mods map[string]int) Attributes {
	for name, v := range mods {
		if f := a.field(name); f != nil {
			*f += v
		}
	}
	return a
}

// Unmet returns a message for the first requirement a falls short of, in
// attribute order, or "" when all are met.
func (a Attributes) Unmet(reqs map[string]int) string {
	for _, name := range attributeNames {
		need, ok := reqs[name]
		if !ok {
			continue
		}
		have, _ := a.Get(name)
		if have < need {
			return fmt.Sprintf("requires %s %d (you have %d)", name, need, have)
		}
	}
	return ""
}
