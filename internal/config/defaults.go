package config

const (
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultHistoryPath = "~/.local/share/cargo-sweep/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Sweep: Sweep{
			IncludeHidden: false,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
