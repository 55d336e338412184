package ops

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

type logLevelConfig struct {
	format Format
	logger *slog.Logger
}

// LogLevelOption configures LogLevelGetHandler / LogLevelSetHandler.
type LogLevelOption func(*logLevelConfig)

// WithLogLevelDefaultFormat sets the default response format for log level handlers.
func WithLogLevelDefaultFormat(f Format) LogLevelOption {
	return func(c *logLevelConfig) { c.format = f }
}

// WithLogLevelLogger logs level changes made through LogLevelSetHandler.
func WithLogLevelLogger(l *slog.Logger) LogLevelOption {
	return func(c *logLevelConfig) { c.logger = l }
}

func applyLogLevelOptions(opts []LogLevelOption) logLevelConfig {
	cfg := logLevelConfig{format: FormatText}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.format = normalizeFormat(cfg.format)
	return cfg
}

// LogLevelSnapshot is a point-in-time view of a slog.LevelVar.
type LogLevelSnapshot struct {
	// Level is one of debug/info/warn/error, bucketed from LevelValue.
	Level      string `json:"level"`
	LevelValue int    `json:"level_value"`
}

// LogLevel returns a snapshot of lv.
func LogLevel(lv *slog.LevelVar) LogLevelSnapshot {
	if lv == nil {
		return LogLevelSnapshot{}
	}
	l := lv.Level()
	return LogLevelSnapshot{Level: levelName(l), LevelValue: int(l)}
}

func (s LogLevelSnapshot) appendLines(lw *lineWriter, prefix string) {
	lw.line("", prefix+"level", s.Level)
	lw.line("", prefix+"level_value", strconv.Itoa(s.LevelValue))
}

type logLevelGetResponse struct {
	baseReply
	Log *LogLevelSnapshot `json:"log,omitempty"`
}

func (r logLevelGetResponse) text() string {
	lw := lineWriter{section: "log"}
	if r.Log != nil {
		r.Log.appendLines(&lw, "")
	}
	return lw.String()
}

type logLevelSetResponse struct {
	baseReply
	Old *LogLevelSnapshot `json:"old,omitempty"`
	New *LogLevelSnapshot `json:"new,omitempty"`
}

func (r logLevelSetResponse) text() string {
	lw := lineWriter{section: "log"}
	if r.Old != nil {
		r.Old.appendLines(&lw, "old_")
	}
	if r.New != nil {
		r.New.appendLines(&lw, "new_")
	}
	return lw.String()
}

// LogLevelGetHandler returns a handler that outputs the current level of lv.
// GET/HEAD only.
func LogLevelGetHandler(lv *slog.LevelVar, opts ...LogLevelOption) http.Handler {
	if lv == nil {
		panic("ops: nil slog.LevelVar")
	}
	cfg := applyLogLevelOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowRead(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, logLevelGetResponse{baseReply: failed("method not allowed")})
			return
		}
		snap := LogLevel(lv)
		write(w, r, format, http.StatusOK, logLevelGetResponse{baseReply: baseReply{OK: true}, Log: &snap})
	})
}

// LogLevelSetHandler returns a handler that changes the level of lv.
//
// Input: POST, ?level=debug|info|warn|error (case-insensitive; "warning" and
// "err" are accepted as aliases).
func LogLevelSetHandler(lv *slog.LevelVar, opts ...LogLevelOption) http.Handler {
	if lv == nil {
		panic("ops: nil slog.LevelVar")
	}
	cfg := applyLogLevelOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowWrite(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, logLevelSetResponse{baseReply: failed("method not allowed")})
			return
		}
		raw, _ := queryValue(r, "level")
		l, ok := ParseLevel(raw)
		if !ok {
			write(w, r, format, http.StatusBadRequest, logLevelSetResponse{
				baseReply: failed("invalid level (want one of: debug, info, warn, error)"),
			})
			return
		}

		old := LogLevel(lv)
		lv.Set(l)
		newSnap := LogLevel(lv)
		if cfg.logger != nil {
			cfg.logger.Info("touchboost: log level changed", "old", old.Level, "new", newSnap.Level)
		}
		write(w, r, format, http.StatusOK, logLevelSetResponse{
			baseReply: baseReply{OK: true},
			Old:       &old,
			New:       &newSnap,
		})
	})
}

// ParseLevel maps debug/info/warn/error (and the aliases warning, err) to a
// slog.Level. It is case-insensitive and ignores surrounding whitespace.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// levelName buckets arbitrary levels by the slog defaults.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
