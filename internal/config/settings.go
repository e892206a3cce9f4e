package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings are the process-level options, read from the environment.
type Settings struct {
	// Environment selects the events.<environment> section.
	Environment string `env:"EVFIRE_ENV" envDefault:"development"`

	// ConfigPath is the events file. Its extension picks the format.
	ConfigPath string `env:"EVFIRE_CONFIG" envDefault:"events.toml"`

	// ScriptDir is where lua: handler references are looked up.
	ScriptDir string `env:"EVFIRE_SCRIPT_DIR" envDefault:"."`

	LogLevel  string `env:"EVFIRE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"EVFIRE_LOG_FORMAT" envDefault:"text"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	s, err := env.ParseAs[Settings]()
	if err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// LoadSettingsFrom parses Settings from the given variables instead of the
// process environment.
func LoadSettingsFrom(vars map[string]string) (Settings, error) {
	s, err := env.ParseAsWithOptions[Settings](env.Options{Environment: vars})
	if err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// Validate checks that every setting has a usable value.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Environment) == "" {
		return fmt.Errorf("%w: environment is empty", ErrInvalidSettings)
	}
	if strings.ContainsAny(s.Environment, ". ") {
		return fmt.Errorf("%w: environment %q contains '.' or spaces", ErrInvalidSettings, s.Environment)
	}
	if s.ConfigPath == "" {
		return fmt.Errorf("%w: config path is empty", ErrInvalidSettings)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidSettings, s.LogLevel)
	}
	switch s.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidSettings, s.LogFormat)
	}
	return nil
}
