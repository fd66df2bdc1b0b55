package storage

import (
	"encoding/json"
	"fmt"
	"maps"
)

// ExtensionState holds opaque JSON values keyed by the layer that owns them.
// The core never looks inside.
type ExtensionState map[string]json.RawMessage

func (e *ExtensionState) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal extension %q: %w", key, err)
	}
	if *e == nil {
		*e = ExtensionState{}
	}
	(*e)[key] = b
	return nil
}

// Get unmarshals the value at key into out. Missing keys report false.
func (e ExtensionState) Get(key string, out any) (bool, error) {
	raw, ok := e[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal extension %q: %w", key, err)
	}
	return true, nil
}

func (e ExtensionState) Delete(key string) {
	delete(e, key)
}

// Clone copies the map. Values are immutable byte slices and are shared.
func (e ExtensionState) Clone() ExtensionState {
	return maps.Clone(e)
}
