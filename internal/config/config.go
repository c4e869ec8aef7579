// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	DefaultProfile string     `toml:"default_profile"`
	Completion     Completion `toml:"completion"`
	Profiles       []Profile  `toml:"profiles"`
	Theme          Theme      `toml:"theme_colors"`
	Keys           KeyMap     `toml:"keys"`

	path string
}

// Completion tunes the completion engine and the editor that drives it
type Completion struct {
	MaxResults       int       `toml:"max_results"`
	ContextWindow    int       `toml:"context_window"`
	DebounceMS       int       `toml:"debounce_ms"`
	FetchTimeout     string    `toml:"fetch_timeout"` // Go duration, e.g. "5s"
	FetchConcurrency int       `toml:"fetch_concurrency"`
	Snippets         []Snippet `toml:"snippets"`
}

// Snippet is a user-defined query skeleton, offered next to the built-in ones
type Snippet struct {
	Label  string `toml:"label"`
	Detail string `toml:"detail,omitempty"`
	Body   string `toml:"body"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	ChromaStyle   string `toml:"chroma_style"`
}

// KeyMap defines key bindings of the editor
type KeyMap struct {
	Trigger []string `toml:"trigger"`
	Accept  []string `toml:"accept"`
	Next    []string `toml:"next"`
	Prev    []string `toml:"prev"`
	Dismiss []string `toml:"dismiss"`
	Exit    []string `toml:"exit"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Completion: Completion{
			MaxResults:       300,
			ContextWindow:    1000,
			DebounceMS:       120,
			FetchTimeout:     "5s",
			FetchConcurrency: 4,
		},
		Profiles: []Profile{},
		Theme: Theme{
			// Nord
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			ChromaStyle:   "nord",
		},
		Keys: KeyMap{
			Trigger: []string{"ctrl+@", "ctrl+space"},
			Accept:  []string{"tab", "enter"},
			Next:    []string{"down", "ctrl+n"},
			Prev:    []string{"up", "ctrl+p"},
			Dismiss: []string{"esc"},
			Exit:    []string{"ctrl+c", "ctrl+d"},
		},
	}
}

// Debounce is the pause after a keystroke before completion runs.
func (c Completion) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout parses FetchTimeout. An empty value means no limit.
func (c Completion) Timeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("completion.fetch_timeout: %w", err)
	}
	return d, nil
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("ezcomplete/config.toml")
}

// Path is the file the config was loaded from and is saved to.
func (c *Config) Path() string {
	return c.path
}

// Load loads the config at path, or at the XDG path when path is empty.
// A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// First run: create default
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.path = path

	if cfg.fillDefaults() {
		// Persist defaults so the user can see and edit them
		_ = cfg.Save()
	}
	if _, err := cfg.Completion.Timeout(); err != nil {
		return nil, err
	}

	if err := cfg.decryptPasswords(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fillDefaults populates sections missing from older files.
func (c *Config) fillDefaults() bool {
	defaults := DefaultConfig()
	updated := false

	comp := &c.Completion
	if comp.MaxResults <= 0 {
		comp.MaxResults = defaults.Completion.MaxResults
		updated = true
	}
	if comp.ContextWindow <= 0 {
		comp.ContextWindow = defaults.Completion.ContextWindow
		updated = true
	}
	if comp.DebounceMS <= 0 {
		comp.DebounceMS = defaults.Completion.DebounceMS
		updated = true
	}
	if comp.FetchConcurrency <= 0 {
		comp.FetchConcurrency = defaults.Completion.FetchConcurrency
		updated = true
	}
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if len(c.Keys.Accept) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if c.Profiles == nil {
		c.Profiles = []Profile{}
	}
	return updated
}

// Save writes the config to disk
func (c *Config) Save() error {
	if c.path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	if err := c.encryptPasswords(); err != nil {
		return err
	}

	// Owner read/write only
	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
