package config

// Config is the root configuration structure.
type Config struct {
	Library  LibraryConfig  `toml:"library" json:"library"`
	Playback PlaybackConfig `toml:"playback" json:"playback"`
	Play     PlayConfig     `toml:"play" json:"play"`
	TUI      TUIConfig      `toml:"tui" json:"tui"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// LibraryConfig holds where playlists live.
type LibraryConfig struct {
	Store           string `toml:"store" json:"store"`
	DefaultPlaylist string `toml:"default_playlist" json:"default_playlist"`
}

// PlaybackConfig holds default playback settings.
type PlaybackConfig struct {
	Volume       int  `toml:"volume" json:"volume"`
	Shuffle      bool `toml:"shuffle" json:"shuffle"`
	PollInterval int  `toml:"poll_interval" json:"poll_interval"`
}

// PlayConfig holds output settings for headless playback.
type PlayConfig struct {
	NoEmoji   bool   `toml:"no_emoji" json:"no_emoji"`
	Timestamp bool   `toml:"timestamp" json:"timestamp"`
	Format    string `toml:"format" json:"format"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}
