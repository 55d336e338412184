package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

// ErrInvalid is wrapped by every Validate error.
var ErrInvalid = errors.New("config: invalid")

// Validate checks cfg after defaults and overrides were applied.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalid)
	}
	if cfg.Attr.Addr == "" {
		return fmt.Errorf("%w: attr.addr must be set", ErrInvalid)
	}
	if !strings.HasPrefix(cfg.Attr.Prefix, "/") {
		return fmt.Errorf("%w: attr.prefix must start with '/', got %q", ErrInvalid, cfg.Attr.Prefix)
	}
	if cfg.Attr.Prefix == "/" || cfg.Attr.Prefix == "/-/" || cfg.Attr.Prefix == "/-" {
		return fmt.Errorf("%w: attr.prefix %q collides with the admin prefix", ErrInvalid, cfg.Attr.Prefix)
	}
	for _, n := range cfg.Admin.AllowWrites {
		if _, err := boost.ParseField(n); err != nil {
			return fmt.Errorf("%w: admin.allow_writes: %w", ErrInvalid, err)
		}
	}
	if len(cfg.Admin.AllowWrites) != 0 && cfg.Admin.Token == "" {
		return fmt.Errorf("%w: admin.allow_writes requires admin.token", ErrInvalid)
	}
	if cfg.Attach.Optional && cfg.Admin.Addr == "" {
		return fmt.Errorf("%w: attach.optional requires admin.addr", ErrInvalid)
	}
	if cfg.Boost.DurationMs > boost.DurationMsMax {
		return fmt.Errorf("%w: boost.duration_ms must be <= %d, got %d", ErrInvalid, boost.DurationMsMax, cfg.Boost.DurationMs)
	}

	switch cfg.CPUFreq.Source {
	case SourceSysfs:
		if cfg.CPUFreq.Root == "" {
			return fmt.Errorf("%w: cpufreq.root must be set for the sysfs source", ErrInvalid)
		}
		if cfg.CPUFreq.CPU < 0 {
			return fmt.Errorf("%w: cpufreq.cpu must be >= 0, got %d", ErrInvalid, cfg.CPUFreq.CPU)
		}
	case SourceStatic:
		if len(cfg.CPUFreq.Levels) == 0 {
			return fmt.Errorf("%w: cpufreq.levels must be set for the static source", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unsupported cpufreq.source %q", ErrInvalid, cfg.CPUFreq.Source)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unsupported log.level %q", ErrInvalid, cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unsupported log.format %q", ErrInvalid, cfg.Log.Format)
	}
	if cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must be >= 0", ErrInvalid)
	}
	return nil
}
