package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evan-idocoding/touchboost"
	"github.com/evan-idocoding/touchboost/internal/config"
	"github.com/evan-idocoding/touchboost/ops"
	"github.com/evan-idocoding/touchboost/rt/boost"
	"github.com/evan-idocoding/touchboost/rt/cpufreq"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			svc, err := buildService(cfg, os.Stderr)
			if err != nil {
				return err
			}
			return svc.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "YAML config file (environment only if empty)")
	return cmd
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables serve understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.Describe()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, *slog.LevelVar) {
	lv := &slog.LevelVar{}
	if l, ok := ops.ParseLevel(cfg.Level); ok {
		lv.Set(l)
	}
	hopts := &slog.HandlerOptions{Level: lv}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts)), lv
	}
	return slog.New(slog.NewTextHandler(w, hopts)), lv
}

func levelSource(cfg config.CPUFreqConfig) boost.LevelSource {
	if cfg.Source == config.SourceStatic {
		return boost.StaticLevels(cfg.Levels...)
	}
	return cpufreq.Sysfs{Root: cfg.Root, CPU: cfg.CPU}
}

// buildService turns a validated config into a service. Logs go to w.
func buildService(cfg *config.Config, w io.Writer) (*touchboost.Service, error) {
	logger, lv := newLogger(cfg.Log, w)

	st, err := boost.New(
		boost.WithLevelSource(levelSource(cfg.CPUFreq)),
		boost.WithDefaultEnabled(cfg.Boost.Enabled),
		boost.WithDefaultLevel(cfg.Boost.Level),
		boost.WithDefaultDurationMs(cfg.Boost.DurationMs),
		boost.WithOnChange(func(f boost.Field, v uint64) {
			logger.Info("touchboost: value changed", "attr", f.String(), "value", v)
		}),
	)
	if err != nil {
		return nil, err
	}
	if levels, err := st.LegalLevels(); err != nil {
		logger.Warn("touchboost: legal levels unavailable, boost-level writes will fail", "err", err)
	} else {
		logger.Info("touchboost: legal levels", "source", cfg.CPUFreq.Source, "count", len(levels))
	}

	read, write := touchboost.AllowAll(), touchboost.DenyAll()
	if cfg.Admin.Token != "" {
		read = touchboost.Tokens([]string{cfg.Admin.Token})
		write = read
	}
	adminSpec := touchboost.AdminSpec{ReadGuard: read}
	if len(cfg.Admin.AllowWrites) != 0 {
		adminSpec.Writes = &touchboost.AdminWriteSpec{
			Guard:             write,
			AllowNames:        cfg.Admin.AllowWrites,
			EnableLogLevelSet: true,
		}
	}

	return touchboost.NewDefaultService(touchboost.ServiceSpec{
		Store:           st,
		Logger:          logger,
		LogLevelVar:     lv,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Attr: touchboost.AttrServerSpec{
			Addr:     cfg.Attr.Addr,
			Prefix:   cfg.Attr.Prefix,
			Optional: cfg.Attach.Optional,
		},
		Admin: &touchboost.ServiceAdminSpec{
			Addr: strings.TrimSpace(cfg.Admin.Addr),
			Spec: adminSpec,
		},
	}), nil
}
