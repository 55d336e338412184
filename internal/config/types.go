package config

import "time"

// Config is the daemon configuration.
//
// Values come from Default, then the YAML file, then TOUCHBOOST_* variables.
type Config struct {
	Attr            AttrConfig    `yaml:"attr"`
	Admin           AdminConfig   `yaml:"admin"`
	Attach          AttachConfig  `yaml:"attach"`
	Boost           BoostConfig   `yaml:"boost"`
	CPUFreq         CPUFreqConfig `yaml:"cpufreq"`
	Log             LogConfig     `yaml:"log"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TOUCHBOOST_SHUTDOWN_TIMEOUT" env-default:"10s" env-description:"graceful shutdown bound"`
}

type AttrConfig struct {
	Addr   string `yaml:"addr" env:"TOUCHBOOST_ATTR_ADDR" env-default:"127.0.0.1:7370" env-description:"listen address of the attribute surface"`
	Prefix string `yaml:"prefix" env:"TOUCHBOOST_ATTR_PREFIX" env-default:"/touchboost_switch/" env-description:"mount point of the attributes"`
}

type AdminConfig struct {
	// Addr empty mounts the admin subtree on the attribute listener under /-/.
	Addr        string   `yaml:"addr" env:"TOUCHBOOST_ADMIN_ADDR" env-description:"standalone admin listen address"`
	Token       string   `yaml:"token" env:"TOUCHBOOST_ADMIN_TOKEN" env-description:"token required by admin endpoints"`
	AllowWrites []string `yaml:"allow_writes" env:"TOUCHBOOST_ADMIN_ALLOW_WRITES" env-separator:"," env-description:"attributes admin may change (requires token)"`
}

type AttachConfig struct {
	Optional bool `yaml:"optional" env:"TOUCHBOOST_ATTACH_OPTIONAL" env-description:"keep running without the attribute listener (requires admin.addr)"`
}

type BoostConfig struct {
	Enabled    bool   `yaml:"enabled" env:"TOUCHBOOST_BOOST_ENABLED" env-description:"initial boost-enabled"`
	Level      uint64 `yaml:"level" env:"TOUCHBOOST_BOOST_LEVEL" env-description:"initial boost-level"`
	DurationMs uint64 `yaml:"duration_ms" env:"TOUCHBOOST_BOOST_DURATION_MS" env-description:"initial boost-duration-ms"`
}

type CPUFreqConfig struct {
	Source string   `yaml:"source" env:"TOUCHBOOST_CPUFREQ_SOURCE" env-default:"sysfs" env-description:"legal-level source: sysfs or static"`
	Root   string   `yaml:"root" env:"TOUCHBOOST_CPUFREQ_ROOT" env-default:"/sys" env-description:"sysfs mount point"`
	CPU    int      `yaml:"cpu" env:"TOUCHBOOST_CPUFREQ_CPU" env-description:"cpu whose frequency table is used"`
	Levels []uint64 `yaml:"levels" env:"TOUCHBOOST_CPUFREQ_LEVELS" env-separator:"," env-description:"legal levels for the static source"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"TOUCHBOOST_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Format string `yaml:"format" env:"TOUCHBOOST_LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

const (
	SourceSysfs  = "sysfs"
	SourceStatic = "static"
)
