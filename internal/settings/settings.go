// Package settings persists user preferences as a JSON file under the data
// directory. The store is an explicit handle created at startup and passed
// to whichever component needs it; there is no ambient global state.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// UIOptions are the display preferences forwarded to the UI.
type UIOptions struct {
	ShowTimestamps bool   `json:"show_timestamps"`
	ShowModelInfo  bool   `json:"show_model_info"`
	CompactMode    bool   `json:"compact_mode"`
	FontSize       string `json:"font_size"` // small, medium, large
}

// Settings are the user preferences.
type Settings struct {
	Theme                  string    `json:"theme"`
	PreferredModel         string    `json:"preferred_model"`
	TypingSpeed            string    `json:"typing_speed"` // slow, medium, fast
	SaveConversations      bool      `json:"save_conversations"`
	MaxConversationHistory int       `json:"max_conversation_history"`
	AutoSaveInterval       int       `json:"auto_save_interval"` // minutes
	VoiceEnabled           bool      `json:"voice_enabled"`
	UIOptions              UIOptions `json:"ui_options"`
}

// Defaults returns the settings written on first start.
func Defaults() Settings {
	return Settings{
		Theme:                  "default",
		PreferredModel:         "gpt-4o-mini",
		TypingSpeed:            "medium",
		SaveConversations:      true,
		MaxConversationHistory: 50,
		AutoSaveInterval:       5,
		VoiceEnabled:           false,
		UIOptions: UIOptions{
			ShowTimestamps: true,
			ShowModelInfo:  true,
			CompactMode:    false,
			FontSize:       "medium",
		},
	}
}

// Store holds the current settings in memory and mirrors every update to
// the settings file.
type Store struct {
	path string

	mu      sync.RWMutex
	current Settings
}

// Open loads settings from path, creating the file with defaults when it
// does not exist. An unreadable or corrupt file also falls back to
// defaults (the next update rewrites it).
func Open(path string) (*Store, error) {
	s := &Store{path: path, current: Defaults()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.persist(s.current); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read %s: %w", path, err)
	}
	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err == nil {
		s.current = loaded
	}
	return s, nil
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the settings and persists them.
func (s *Store) Update(next Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// Set changes a single named setting. Only the fields the assistant's
// settings command can address are supported.
func (s *Store) Set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	switch name {
	case "theme":
		if _, ok := Themes[value]; !ok {
			return fmt.Errorf("settings: unknown theme %q", value)
		}
		next.Theme = value
	case "preferred_model":
		next.PreferredModel = value
	case "typing_speed":
		next.TypingSpeed = value
	case "font_size":
		next.UIOptions.FontSize = value
	default:
		return fmt.Errorf("settings: unknown setting %q", name)
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func (s *Store) persist(v Settings) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings: mkdir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.path, err)
	}
	return nil
}
