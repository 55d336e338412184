package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "touchboost.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Attr.Addr != "127.0.0.1:7370" || cfg.Attr.Prefix != "/touchboost_switch/" {
		t.Fatalf("attr=%+v", cfg.Attr)
	}
	if !cfg.Boost.Enabled || cfg.Boost.Level != 0 || cfg.Boost.DurationMs != 40 {
		t.Fatalf("boost=%+v", cfg.Boost)
	}
	if cfg.CPUFreq.Source != SourceSysfs || cfg.CPUFreq.Root != "/sys" {
		t.Fatalf("cpufreq=%+v", cfg.CPUFreq)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("log=%+v shutdown=%v", cfg.Log, cfg.ShutdownTimeout)
	}
}

func TestLoad_FileKeepsMeaningfulZeros(t *testing.T) {
	p := writeFile(t, `
attr:
  addr: ":9000"
boost:
  enabled: false
  duration_ms: 0
cpufreq:
  source: static
  levels: [300000, 600000]
attach:
  optional: true
log:
  format: JSON
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Attr.Addr != ":9000" {
		t.Fatalf("attr.addr=%q", cfg.Attr.Addr)
	}
	if cfg.Boost.Enabled || cfg.Boost.DurationMs != 0 {
		t.Fatalf("boost=%+v, want zero values from file", cfg.Boost)
	}
	if len(cfg.CPUFreq.Levels) != 2 || cfg.CPUFreq.Levels[1] != 600000 {
		t.Fatalf("levels=%v", cfg.CPUFreq.Levels)
	}
	if !cfg.Attach.Optional || cfg.Log.Format != "json" {
		t.Fatalf("attach=%+v log=%+v", cfg.Attach, cfg.Log)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeFile(t, "attr:\n  addr: \":9000\"\n")
	t.Setenv("TOUCHBOOST_ATTR_ADDR", "127.0.0.1:9100")
	t.Setenv("TOUCHBOOST_BOOST_DURATION_MS", "250")
	t.Setenv("TOUCHBOOST_CPUFREQ_SOURCE", "Static")
	t.Setenv("TOUCHBOOST_CPUFREQ_LEVELS", "100,200")
	t.Setenv("TOUCHBOOST_ADMIN_TOKEN", "s3cr3t")
	t.Setenv("TOUCHBOOST_ADMIN_ALLOW_WRITES", "boost-enabled, boost-level")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Attr.Addr != "127.0.0.1:9100" || cfg.Boost.DurationMs != 250 {
		t.Fatalf("attr=%+v boost=%+v", cfg.Attr, cfg.Boost)
	}
	if cfg.CPUFreq.Source != SourceStatic || len(cfg.CPUFreq.Levels) != 2 {
		t.Fatalf("cpufreq=%+v", cfg.CPUFreq)
	}
	if strings.Join(cfg.Admin.AllowWrites, "|") != "boost-enabled|boost-level" {
		t.Fatalf("allow_writes=%q", cfg.Admin.AllowWrites)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		return cfg
	}
	cases := map[string]func(*Config){
		"empty addr":            func(c *Config) { c.Attr.Addr = "" },
		"relative prefix":       func(c *Config) { c.Attr.Prefix = "x" },
		"admin prefix":          func(c *Config) { c.Attr.Prefix = "/-/" },
		"duration too large":    func(c *Config) { c.Boost.DurationMs = 10001 },
		"unknown source":        func(c *Config) { c.CPUFreq.Source = "acpi" },
		"static without levels": func(c *Config) { c.CPUFreq.Source = SourceStatic },
		"negative cpu":          func(c *Config) { c.CPUFreq.CPU = -1 },
		"bad log level":         func(c *Config) { c.Log.Level = "trace" },
		"bad log format":        func(c *Config) { c.Log.Format = "xml" },
		"writes without token":  func(c *Config) { c.Admin.AllowWrites = []string{"boost-level"} },
		"unknown write attr": func(c *Config) {
			c.Admin.Token = "t"
			c.Admin.AllowWrites = []string{"boost-speed"}
		},
		"optional attach with mounted admin": func(c *Config) {
			c.Attach.Optional = true
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			if err := Validate(cfg); !errors.Is(err, ErrInvalid) {
				t.Fatalf("err=%v, want ErrInvalid", err)
			}
		})
	}
	if err := Validate(base()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	cfg := base()
	cfg.Attach.Optional = true
	cfg.Admin.Addr = "127.0.0.1:7371"
	if err := Validate(cfg); err != nil {
		t.Fatalf("optional attach with standalone admin: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	out, err := Describe()
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	for _, want := range []string{"TOUCHBOOST_ATTR_ADDR", "TOUCHBOOST_CPUFREQ_LEVELS", "TOUCHBOOST_ATTACH_OPTIONAL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("description misses %s:\n%s", want, out)
		}
	}
}
