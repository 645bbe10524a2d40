// Package config loads the jjnav configuration via viper: a YAML file at
// ~/.config/jjnav/config.yaml with JJNAV_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the complete jjnav configuration.
type Config struct {
	UI   UIConfig          `mapstructure:"ui"`
	Git  GitConfig         `mapstructure:"git"`
	Keys map[string]string `mapstructure:"keys"`
}

// UIConfig controls the log view and diff preview.
type UIConfig struct {
	// DiffPreset selects how the diff preview is rendered.
	// Options: "git", "color-words", "summary", "stat", "none"
	DiffPreset string `mapstructure:"diff_preset"`
	// LogRevset overrides the revset for the log query (empty = jj default)
	LogRevset string `mapstructure:"log_revset"`
}

// GitConfig controls the git-facing operations.
type GitConfig struct {
	// Remote is the remote name used by bookmark pull (default: "origin")
	Remote string `mapstructure:"remote"`
}

// diffPresets is the closed set of diff preview strategies and the jj diff
// arguments each one adds. "none" disables the preview entirely.
var diffPresets = map[string][]string{
	"git":         {"--git"},
	"color-words": {"--color-words"},
	"summary":     {"--summary"},
	"stat":        {"--stat"},
	"none":        nil,
}

// ValidDiffPresets returns the accepted diff_preset values, sorted.
func ValidDiffPresets() []string {
	names := make([]string, 0, len(diffPresets))
	for name := range diffPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DiffArgs returns the jj diff arguments for the configured preset.
func (c *Config) DiffArgs() []string {
	return diffPresets[c.UI.DiffPreset]
}

// DiffEnabled reports whether the diff preview panel is shown at all.
func (c *Config) DiffEnabled() bool {
	return c.UI.DiffPreset != "none"
}

// DefaultKeys is the built-in keybinding table. User bindings from the
// config file are merged on top; a user value that names no built-in action
// is forwarded to jj verbatim.
func DefaultKeys() map[string]string {
	return map[string]string{
		"n":      "new",
		"d":      "describe",
		"e":      "edit",
		"a":      "abandon",
		"r":      "rebase",
		"s":      "squash",
		"S":      "squash-to",
		"b":      "bookmark-set",
		"B":      "bookmarks",
		"p":      "push",
		"P":      "push-new",
		"f":      "fetch",
		"u":      "undo",
		" ":      "select",
		"c":      "clear-selection",
		"ctrl+r": "refresh",
		"?":      "help",
		"q":      "quit",
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		UI:   UIConfig{DiffPreset: "git"},
		Git:  GitConfig{Remote: "origin"},
		Keys: DefaultKeys(),
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()
	viper.SetDefault("ui.diff_preset", defaults.UI.DiffPreset)
	viper.SetDefault("ui.log_revset", defaults.UI.LogRevset)
	viper.SetDefault("git.remote", defaults.Git.Remote)
}

// Load unmarshals the configuration and normalizes it. Normalization never
// fails: bad values fall back to safe defaults and come back as warnings.
func Load() (*Config, []string, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	keys, err := caseSensitiveKeys(viper.ConfigFileUsed())
	if err != nil {
		return nil, nil, err
	}
	if keys != nil {
		cfg.Keys = keys
	}
	warnings := cfg.normalize()
	return &cfg, warnings, nil
}

// caseSensitiveKeys re-reads the keys table straight from the config file.
// viper folds map keys to lowercase, which would merge a binding like "S"
// into "s"; the keybinding table is single keys where case matters (the
// defaults ship s/S, b/B, p/P), so that one section bypasses viper.
func caseSensitiveKeys(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var raw struct {
		Keys map[string]string `yaml:"keys"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config keys: %w", err)
	}
	return raw.Keys, nil
}

// normalize enforces the closed preset set, fills the remote default, and
// merges user keybindings over the built-in table.
func (c *Config) normalize() []string {
	var warnings []string

	if _, ok := diffPresets[c.UI.DiffPreset]; !ok {
		warnings = append(warnings, fmt.Sprintf(
			"unknown ui.diff_preset %q (valid: %v); diff preview disabled",
			c.UI.DiffPreset, ValidDiffPresets()))
		c.UI.DiffPreset = "none"
	}

	if c.Git.Remote == "" {
		c.Git.Remote = "origin"
	}

	keys := DefaultKeys()
	for k, action := range c.Keys {
		if action == "" {
			delete(keys, k) // empty value unbinds a default
			continue
		}
		keys[k] = action
	}
	c.Keys = keys

	return warnings
}

// Dir returns the user's jjnav config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jjnav")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jjnav"
	}
	return filepath.Join(home, ".config", "jjnav")
}

// File returns the path to the config file.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}
