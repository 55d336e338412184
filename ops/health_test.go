package ops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

func TestHealthz_Text_OK(t *testing.T) {
	w := serve(HealthzHandler(), http.MethodGet, "http://example/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want=%d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != "ok\n" {
		t.Fatalf("body=%q, want %q", body, "ok\n")
	}
}

func TestHealthz_JSON_OK(t *testing.T) {
	w := serve(HealthzHandler(WithHealthDefaultFormat(FormatJSON)), http.MethodGet, "http://example/healthz")
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ok, _ := got["ok"].(bool); !ok {
		t.Fatalf("json ok=%v, want true", got["ok"])
	}
}

func TestHealthz_HeadHasNoBody(t *testing.T) {
	w := serve(HealthzHandler(), http.MethodHead, "http://example/healthz")
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("status=%d body=%q, want 200 and empty body", w.Code, w.Body.String())
	}
}

func TestHealthz_MethodNotAllowed(t *testing.T) {
	w := serve(HealthzHandler(), http.MethodPost, "http://example/healthz")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d, want=%d", w.Code, http.StatusMethodNotAllowed)
	}
	if allow := w.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("Allow=%q", allow)
	}
}

func TestReadyz_AllOK(t *testing.T) {
	h := ReadyzHandler([]ReadyCheck{
		{Name: "a", Func: func(context.Context) error { return nil }},
	})
	w := serve(h, http.MethodGet, "http://example/readyz")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want=%d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); !strings.HasPrefix(body, "ok\n") || !strings.Contains(body, "ready\ta\tok\ttrue\n") {
		t.Fatalf("body=%q", body)
	}
}

func TestReadyz_FailureTimeoutAndPanic(t *testing.T) {
	h := ReadyzHandler([]ReadyCheck{
		{Name: "ok", Func: func(context.Context) error { return nil }},
		{Name: "bad", Func: func(context.Context) error { return errors.New("down") }},
		{Name: "slow", Timeout: 10 * time.Millisecond, Func: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		{Name: "boom", Func: func(context.Context) error { panic("x") }},
	}, WithHealthDefaultFormat(FormatJSON))
	w := serve(h, http.MethodGet, "http://example/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want=%d", w.Code, http.StatusServiceUnavailable)
	}
	var rep ReadyzReport
	if err := json.Unmarshal(w.Body.Bytes(), &rep); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rep.OK || len(rep.Checks) != 4 {
		t.Fatalf("rep=%+v", rep)
	}
	if !rep.Checks[0].OK || rep.Checks[1].OK || rep.Checks[1].Error != "down" {
		t.Fatalf("checks=%+v", rep.Checks)
	}
	if !rep.Checks[2].TimedOut {
		t.Fatalf("slow check not marked timed out: %+v", rep.Checks[2])
	}
	if !strings.HasPrefix(rep.Checks[3].Error, "panic: ") {
		t.Fatalf("boom check error=%q", rep.Checks[3].Error)
	}
}

func TestReadyz_TextFailureLines(t *testing.T) {
	h := ReadyzHandler([]ReadyCheck{
		{Name: "bad", Func: func(context.Context) error { return errors.New("down") }},
	})
	w := serve(h, http.MethodGet, "http://example/readyz")
	if body := w.Body.String(); body != "fail\tbad\tdown\n" {
		t.Fatalf("body=%q", body)
	}
}

func TestReadyzHandler_PanicsOnBadCheck(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	ReadyzHandler([]ReadyCheck{{Name: "", Func: func(context.Context) error { return nil }}})
}

func TestLevelSourceCheck(t *testing.T) {
	st, err := boost.New(boost.WithLevelSource(boost.StaticLevels(300000)))
	if err != nil {
		t.Fatalf("boost.New: %v", err)
	}
	rep := RunReadyzChecks(context.Background(), []ReadyCheck{LevelSourceCheck(st)})
	if !rep.OK {
		t.Fatalf("rep=%+v, want ok", rep)
	}

	empty, _ := boost.New(boost.WithLevelSource(boost.StaticLevels()))
	rep = RunReadyzChecks(context.Background(), []ReadyCheck{LevelSourceCheck(empty)})
	if rep.OK || !strings.Contains(rep.Checks[0].Error, "empty legal-level set") {
		t.Fatalf("rep=%+v, want empty set failure", rep)
	}

	none, _ := boost.New()
	rep = RunReadyzChecks(context.Background(), []ReadyCheck{LevelSourceCheck(none)})
	if rep.OK || rep.Checks[0].Name != "level_source" {
		t.Fatalf("rep=%+v, want level_source failure", rep)
	}
}
