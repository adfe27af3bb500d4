package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			Volume:       80,
			Shuffle:      false,
			PollInterval: 200,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 200,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Playback
	if c.Playback.Volume == 0 {
		c.Playback.Volume = d.Playback.Volume
	}
	if c.Playback.PollInterval == 0 {
		c.Playback.PollInterval = d.Playback.PollInterval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
