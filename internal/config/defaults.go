package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			RefreshMs: 1000,
			Colors:    true,
			Emojis:    true,
		},
		Speaker: SpeakerConfig{
			PollIntervalMs: 1000,
			TimeoutMs:      10000,
		},
		Discovery: DiscoveryConfig{
			TimeoutMs: 3000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults. Booleans are
// left alone: false is a valid persisted choice.
func (c *Config) ApplyDefaults() {
	d := Default()

	if c.UI.RefreshMs == 0 {
		c.UI.RefreshMs = d.UI.RefreshMs
	}

	if c.Speaker.PollIntervalMs == 0 {
		c.Speaker.PollIntervalMs = d.Speaker.PollIntervalMs
	}
	if c.Speaker.TimeoutMs == 0 {
		c.Speaker.TimeoutMs = d.Speaker.TimeoutMs
	}

	if c.Discovery.TimeoutMs == 0 {
		c.Discovery.TimeoutMs = d.Discovery.TimeoutMs
	}

	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
