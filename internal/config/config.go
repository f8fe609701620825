// Package config loads the command line settings: built-in defaults, then an
// optional TOML file, then LOKALIZE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "LOKALIZE_"

// Config holds the command line settings.
type Config struct {
	LogLevel        string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat       string `toml:"log_format" env:"LOG_FORMAT"`
	Color           bool   `toml:"color" env:"COLOR"`
	UILanguage      string `toml:"ui_language" env:"UI_LANGUAGE"`
	DisplayLanguage string `toml:"display_language" env:"DISPLAY_LANGUAGE"`
	FilterEngine    string `toml:"filter_engine" env:"FILTER_ENGINE"`
	Extension       string `toml:"extension" env:"EXTENSION"`
	ActivityLog     string `toml:"activity_log" env:"ACTIVITY_LOG"`
	ActivityChannel string `toml:"activity_channel" env:"ACTIVITY_CHANNEL"`
	ActorID         string `toml:"actor_id" env:"ACTOR_ID"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Color:           true,
		UILanguage:      "en",
		DisplayLanguage: "en",
		FilterEngine:    "expr",
		Extension:       ".properties",
		ActivityChannel: "translations",
	}
}

// Load builds the settings. path may be empty; a missing file is not an
// error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if !required && errors.Is(err, fs.ErrNotExist) {
				return fromEnv(cfg)
			}
			return cfg, err
		}
	}
	return fromEnv(cfg)
}

func loadFile(path string, cfg *Config) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	meta, err := toml.Decode(string(payload), cfg)
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func fromEnv(cfg Config) (Config, error) {
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported log format %q", c.LogFormat)
	}
	switch strings.ToLower(c.FilterEngine) {
	case "expr", "cel", "js":
	default:
		return fmt.Errorf("config: unsupported filter engine %q", c.FilterEngine)
	}
	return nil
}
