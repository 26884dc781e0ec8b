package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard location with environment
// overrides. Missing files are not an error: defaults apply. Decoding starts
// from Default() so an absent key keeps its default while an explicit
// `colors = false` in the file survives.
func Load() (*Config, error) {
	cfg := Default()

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Dir returns the application config directory
// (e.g. ~/.config/KefirCLI on Linux).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the default config.toml location.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// findConfigFile returns the config file to load: $KEFIRCLI_CONFIG when set,
// otherwise the default path if it exists.
func findConfigFile() string {
	if p := os.Getenv("KEFIRCLI_CONFIG"); p != "" {
		return p
	}
	p := DefaultPath()
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// applyEnvOverrides applies KEFIRCLI_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KEFIRCLI_UI_REFRESH_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.UI.RefreshMs = i
		}
	}
	if v := os.Getenv("KEFIRCLI_POLL_INTERVAL_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Speaker.PollIntervalMs = i
		}
	}
	if v := os.Getenv("KEFIRCLI_TIMEOUT_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Speaker.TimeoutMs = i
		}
	}
	if v := os.Getenv("KEFIRCLI_DISCOVERY_TIMEOUT_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.TimeoutMs = i
		}
	}
	if v := os.Getenv("KEFIRCLI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KEFIRCLI_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
