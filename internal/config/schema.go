// Package config owns everything persisted under the user's config
// directory: application settings in config.toml and speaker profiles plus
// the display theme in speakers.json.
package config

import "time"

// AppName is the directory name under os.UserConfigDir().
const AppName = "KefirCLI"

// Config is the root of config.toml.
type Config struct {
	UI        UIConfig        `toml:"ui"`
	Speaker   SpeakerConfig   `toml:"speaker"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Log       LogConfig       `toml:"log"`
}

// UIConfig holds interactive-session settings.
type UIConfig struct {
	// RefreshMs is the poll interval driving the live view.
	RefreshMs int `toml:"refresh_ms"`
	// Colors and Emojis are the theme used until one is persisted with
	// `kefirctl theme set`.
	Colors bool `toml:"colors"`
	Emojis bool `toml:"emojis"`
}

// SpeakerConfig holds connection settings for speaker HTTP calls.
type SpeakerConfig struct {
	PollIntervalMs int `toml:"poll_interval_ms"`
	TimeoutMs      int `toml:"timeout_ms"`
}

// DiscoveryConfig holds network-scan settings.
type DiscoveryConfig struct {
	TimeoutMs int `toml:"timeout_ms"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	// File overrides the default log location under the config directory.
	File string `toml:"file"`
}

// RefreshInterval returns the UI refresh cadence as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.UI.RefreshMs) * time.Millisecond
}

// PollInterval returns the speaker poll cadence as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Speaker.PollIntervalMs) * time.Millisecond
}

// Timeout returns the per-request speaker timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Speaker.TimeoutMs) * time.Millisecond
}

// DiscoveryTimeout returns the network scan window as a duration.
func (c *Config) DiscoveryTimeout() time.Duration {
	return time.Duration(c.Discovery.TimeoutMs) * time.Millisecond
}
