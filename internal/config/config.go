// Package config loads the touchboostd configuration.
package config

import (
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

// Default returns the values cleanenv cannot express as env-default because
// their zero value is meaningful.
func Default() *Config {
	return &Config{
		Boost: BoostConfig{
			Enabled:    boost.DefaultEnabled,
			Level:      boost.DefaultLevel,
			DurationMs: boost.DefaultDurationMs,
		},
	}
}

// Load reads path (optional) and the environment, then validates.
//
// An empty path reads the environment only; a non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Describe lists the environment variables Load understands.
func Describe() (string, error) {
	return cleanenv.GetDescription(Default(), nil)
}

func normalize(cfg *Config) {
	cfg.Attr.Addr = strings.TrimSpace(cfg.Attr.Addr)
	cfg.Attr.Prefix = strings.TrimSpace(cfg.Attr.Prefix)
	cfg.Admin.Addr = strings.TrimSpace(cfg.Admin.Addr)
	cfg.Admin.Token = strings.TrimSpace(cfg.Admin.Token)
	names := cfg.Admin.AllowWrites[:0]
	for _, n := range cfg.Admin.AllowWrites {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	cfg.Admin.AllowWrites = names
	cfg.CPUFreq.Source = strings.ToLower(strings.TrimSpace(cfg.CPUFreq.Source))
	cfg.CPUFreq.Root = strings.TrimSpace(cfg.CPUFreq.Root)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
}
