package ops

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

type healthConfig struct {
	format Format
}

// HealthOption configures HealthzHandler / ReadyzHandler.
type HealthOption func(*healthConfig)

// WithHealthDefaultFormat sets the default response format for health handlers.
func WithHealthDefaultFormat(f Format) HealthOption {
	return func(c *healthConfig) { c.format = f }
}

func applyHealthOptions(opts []HealthOption) healthConfig {
	cfg := healthConfig{format: FormatText}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.format = normalizeFormat(cfg.format)
	return cfg
}

type healthResponse struct {
	baseReply
}

func (healthResponse) text() string { return "ok\n" }

// HealthzHandler returns a liveness handler: 200 "ok" for GET/HEAD.
func HealthzHandler(opts ...HealthOption) http.Handler {
	cfg := applyHealthOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowRead(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, healthResponse{failed("method not allowed")})
			return
		}
		write(w, r, format, http.StatusOK, healthResponse{baseReply{OK: true}})
	})
}

// ReadyCheck is a named readiness check. Func returns nil when ready and
// should respect ctx.
type ReadyCheck struct {
	Name    string
	Func    func(context.Context) error
	Timeout time.Duration // <= 0 means no extra timeout
}

// ReadyCheckResult is the outcome of one check.
type ReadyCheckResult struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	TimedOut bool          `json:"timed_out,omitempty"`
}

// ReadyzReport is a point-in-time readiness report.
type ReadyzReport struct {
	OK       bool               `json:"ok"`
	Duration time.Duration      `json:"duration"`
	Checks   []ReadyCheckResult `json:"checks,omitempty"`
}

func (rep ReadyzReport) ok() bool { return rep.OK }

func (rep ReadyzReport) errMsg() string {
	lw := lineWriter{section: "fail"}
	for _, c := range rep.Checks {
		if !c.OK {
			lw.line("", c.Name, c.Error)
		}
	}
	s := lw.String()
	if len(s) > 0 {
		s = s[:len(s)-1]
	}
	return s
}

func (rep ReadyzReport) text() string {
	lw := lineWriter{section: "ready"}
	for _, c := range rep.Checks {
		lw.line(c.Name, "ok", strconv.FormatBool(c.OK))
	}
	return "ok\n" + lw.String()
}

// ReadyzHandler returns a readiness handler that runs checks sequentially.
//
// 200 if all checks pass, 503 otherwise. GET/HEAD only.
//
// It panics on a check with an empty Name or nil Func.
func ReadyzHandler(checks []ReadyCheck, opts ...HealthOption) http.Handler {
	for i, c := range checks {
		if c.Name == "" {
			panic(fmt.Sprintf("ops: ready check[%d] has empty Name", i))
		}
		if c.Func == nil {
			panic(fmt.Sprintf("ops: ready check[%d] %q has nil Func", i, c.Name))
		}
	}
	cfg := applyHealthOptions(opts)
	checks = append([]ReadyCheck(nil), checks...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := formatFromRequest(r, cfg.format)
		if !allowRead(w, r) {
			write(w, r, format, http.StatusMethodNotAllowed, ReadyzReport{
				Checks: []ReadyCheckResult{{Name: "method", Error: "method not allowed"}},
			})
			return
		}
		rep := RunReadyzChecks(r.Context(), checks)
		code := http.StatusOK
		if !rep.OK {
			code = http.StatusServiceUnavailable
		}
		write(w, r, format, code, rep)
	})
}

// RunReadyzChecks executes checks sequentially and returns a report.
func RunReadyzChecks(ctx context.Context, checks []ReadyCheck) ReadyzReport {
	start := time.Now()
	rep := ReadyzReport{OK: true, Checks: make([]ReadyCheckResult, 0, len(checks))}
	for _, c := range checks {
		cr := runCheck(ctx, c)
		rep.Checks = append(rep.Checks, cr)
		rep.OK = rep.OK && cr.OK
	}
	rep.Duration = time.Since(start)
	return rep
}

func runCheck(parent context.Context, c ReadyCheck) (cr ReadyCheckResult) {
	cr.Name = c.Name
	start := time.Now()
	ctx, cancel := parent, context.CancelFunc(func() {})
	if c.Timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, c.Timeout)
	}
	defer cancel()
	defer func() {
		cr.Duration = time.Since(start)
		if p := recover(); p != nil {
			cr.OK = false
			cr.Error = fmt.Sprintf("panic: %v", p)
		}
		if ctx.Err() == context.DeadlineExceeded {
			cr.OK = false
			cr.TimedOut = true
			if cr.Error == "" {
				cr.Error = "timeout"
			}
		}
	}()

	if err := c.Func(ctx); err != nil {
		cr.Error = err.Error()
		return cr
	}
	cr.OK = true
	return cr
}

// LevelSourceCheck reports ready when st can fetch a non-empty legal-level set.
//
// Boost level writes fail with boost.ErrUnavailable while this check fails;
// the other attributes keep working.
func LevelSourceCheck(st *boost.Store) ReadyCheck {
	if st == nil {
		panic("ops: nil boost.Store")
	}
	return ReadyCheck{
		Name:    "level_source",
		Timeout: time.Second,
		Func: func(context.Context) error {
			levels, err := st.LegalLevels()
			if err != nil {
				return err
			}
			if len(levels) == 0 {
				return fmt.Errorf("%w: empty legal-level set", boost.ErrUnavailable)
			}
			return nil
		},
	}
}
