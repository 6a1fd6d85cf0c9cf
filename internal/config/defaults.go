package config

const defaultHistoryPath = "~/.local/share/discid/history.db"

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Drive: Drive{
			Device:      "",
			ReadTimeout: 0,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
