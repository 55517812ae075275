package config

// Config is the optional file config. Credentials never live here; see Credentials.
type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Poll      PollConfig      `json:"poll"`
	Logging   LoggingConfig   `json:"logging"`
	Journal   *JournalConfig  `json:"journal,omitempty"`
}

type PracticumConfig struct {
	// Endpoint defaults to the public homework_statuses url.
	Endpoint string `json:"endpoint,omitempty"`
	// RequestTimeout is a Go duration string (e.g. "30s").
	RequestTimeout string `json:"request_timeout,omitempty"`
}

type TelegramConfig struct {
	// APIURL overrides the Bot API base url (local bot api server).
	APIURL         string `json:"api_url,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"`
	RatePerSec     int    `json:"rate_per_sec,omitempty"`
}

// PollConfig controls the status loop.
//
// FailFast: when true, a failed status request terminates the process
// (non-zero exit) instead of waiting for the next cycle. Use it when a
// supervisor such as systemd is expected to restart the bot.
type PollConfig struct {
	Interval string `json:"interval,omitempty"` // default "10m"
	FailFast bool   `json:"fail_fast,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// JournalConfig controls the optional delivery journal.
//
// Example:
//
//	"journal": { "driver": "file", "path": "./hwbot_journal" }
type JournalConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// Default is used when no config file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}
