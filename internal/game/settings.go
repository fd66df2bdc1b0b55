package game

import (
	"github.com/pixil98/go-saga/internal/storage"
)

// Settings are player preferences carried with the save. Extensions hold
// opaque values owned by attached layers (UI, audio) keyed by layer name.
type Settings struct {
	Language     string                 `json:"language"`
	SoundEnabled bool                   `json:"sound_enabled"`
	MusicVolume  float64                `json:"music_volume"`
	SFXVolume    float64                `json:"sfx_volume"`
	Extensions   storage.ExtensionState `json:"extensions,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{Language: "en", SoundEnabled: true, MusicVolume: 0.7, SFXVolume: 0.8}
}

func (s *Settings) SetExtension(key string, v any) error {
	return s.Extensions.Set(key, v)
}

func (s Settings) Extension(key string, out any) (bool, error) {
	return s.Extensions.Get(key, out)
}

func (s *Settings) DeleteExtension(key string) {
	s.Extensions.Delete(key)
}

func (s Settings) clone() Settings {
	s.Extensions = s.Extensions.Clone()
	return s
}
