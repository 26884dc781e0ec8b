package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.UI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui: %w", err))
	}
	if err := c.Speaker.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("speaker: %w", err))
	}
	if err := c.Discovery.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("discovery: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks UIConfig for errors.
func (c *UIConfig) Validate() error {
	if c.RefreshMs < 0 {
		return errors.New("refresh_ms must be non-negative")
	}
	if c.RefreshMs > 0 && c.RefreshMs < 100 {
		return errors.New("refresh_ms below 100 would hammer the speaker")
	}
	return nil
}

// Validate checks SpeakerConfig for errors.
func (c *SpeakerConfig) Validate() error {
	if c.PollIntervalMs < 0 {
		return errors.New("poll_interval_ms must be non-negative")
	}
	if c.TimeoutMs < 0 {
		return errors.New("timeout_ms must be non-negative")
	}
	return nil
}

// Validate checks DiscoveryConfig for errors.
func (c *DiscoveryConfig) Validate() error {
	if c.TimeoutMs < 0 {
		return errors.New("timeout_ms must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
