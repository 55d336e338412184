package httpx

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofrs/uuid/v5"
)

func TestChain_Order(t *testing.T) {
	var got []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = append(got, name+"<")
				next.ServeHTTP(w, r)
				got = append(got, ">"+name)
			})
		}
	}
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, "h")
	})

	h := Chain(mw("a"), nil, mw("b")).With(mw("c")).Handler(endpoint)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))

	want := []string{"a<", "b<", "c<", "h", ">c", ">b", ">a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestChain_WithDoesNotMutateReceiver(t *testing.T) {
	noop := func(next http.Handler) http.Handler { return next }
	base := make(Middlewares, 1, 4)
	base[0] = noop
	a := base.With(noop)
	b := base.With(noop, noop)
	if len(base) != 1 || len(a) != 2 || len(b) != 3 {
		t.Fatalf("len(base)=%d len(a)=%d len(b)=%d", len(base), len(a), len(b))
	}
}

func TestChain_NilEndpointPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Chain().Handler(nil)
}

func TestRecover_Writes500AndLogs(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Chain(RequestID(WithGenerator(func() (string, error) { return "rid-1", nil })), Recover(WithRecoverLogger(logger))).
		Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.test/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want=%d", rr.Code, http.StatusInternalServerError)
	}
	out := logs.String()
	if !strings.Contains(out, "panic=boom") || !strings.Contains(out, "request_id=rid-1") {
		t.Fatalf("logs=%q", out)
	}
}

func TestRecover_DoesNotOverrideStartedResponse(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
		panic("boom")
	}), Recover(WithRecoverLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status=%d, want=%d", rr.Code, http.StatusNoContent)
	}
}

func TestRecover_ErrAbortHandlerRepanics(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}), Recover())

	defer func() {
		if p := recover(); p != http.ErrAbortHandler {
			t.Fatalf("recover()=%v, want http.ErrAbortHandler", p)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
}

func TestRequestID_UsesIncomingWhenValid(t *testing.T) {
	var got string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = RequestIDFromRequest(r)
	}), RequestID())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set(DefaultRequestIDHeader, "abc_123")
	h.ServeHTTP(rr, req)

	if got != "abc_123" || rr.Header().Get(DefaultRequestIDHeader) != "abc_123" {
		t.Fatalf("ctx id=%q header=%q, want abc_123", got, rr.Header().Get(DefaultRequestIDHeader))
	}
}

func TestRequestID_GeneratesUUIDByDefault(t *testing.T) {
	var got string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = RequestIDFromRequest(r)
	}), RequestID())

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set(DefaultRequestIDHeader, "bad id with spaces")
	h.ServeHTTP(httptest.NewRecorder(), req)

	u, err := uuid.FromString(got)
	if err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", got, err)
	}
	if u.Version() != uuid.V4 {
		t.Fatalf("version=%d, want 4", u.Version())
	}
}

func TestRequestID_UntrustedIncomingAndGeneratorFallback(t *testing.T) {
	var got string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = RequestIDFromRequest(r)
	}), RequestID(
		WithTrustIncoming(false),
		WithGenerator(func() (string, error) { return "", errors.New("no entropy") }),
	))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set(DefaultRequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == "" || got == "abc" {
		t.Fatalf("got=%q, want a fresh fallback id", got)
	}
}

func TestRequestID_MultipleIncomingValuesIgnored(t *testing.T) {
	var got string
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = RequestIDFromRequest(r)
	}), RequestID(WithGenerator(func() (string, error) { return "gen", nil })))

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Add(DefaultRequestIDHeader, "a")
	req.Header.Add(DefaultRequestIDHeader, "b")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "gen" {
		t.Fatalf("got=%q, want gen", got)
	}
}

func TestAccessLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := Chain(
		RequestID(WithGenerator(func() (string, error) { return "rid-7", nil })),
		AccessLog(WithAccessLogger(logger)),
	).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("12345"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "http://example.test/a", nil))

	out := logs.String()
	for _, want := range []string{"level=DEBUG", "method=PUT", "path=/a", "status=418", "bytes=5", "request_id=rid-7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("logs=%q, want contain %q", out, want)
		}
	}
}

func TestAccessLog_ServerErrorAtError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), AccessLog(WithAccessLogger(logger)))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
	if !strings.Contains(logs.String(), "level=ERROR") {
		t.Fatalf("logs=%q, want an error record", logs.String())
	}
}

func TestTokenGuard(t *testing.T) {
	var reasons []DenyReason
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), TokenGuard([]string{" t1 ", "", "t2"}, WithOnDeny(func(_ *http.Request, reason DenyReason) {
		reasons = append(reasons, reason)
	})))

	cases := []struct {
		values []string
		code   int
	}{
		{nil, http.StatusForbidden},
		{[]string{"t1"}, http.StatusOK},
		{[]string{"t2"}, http.StatusOK},
		{[]string{"t3"}, http.StatusForbidden},
		{[]string{"t1", "t2"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
		for _, v := range tc.values {
			req.Header.Add(DefaultTokenHeader, v)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.code {
			t.Fatalf("values=%v: status=%d, want=%d", tc.values, rr.Code, tc.code)
		}
	}
	want := []DenyReason{DenyReasonTokenMissing, DenyReasonTokenNotAllowed, DenyReasonTokenAmbiguous}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("reasons=%v, want %v", reasons, want)
	}
}

func TestTokenGuard_EmptySetDeniesAll(t *testing.T) {
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), TokenGuard([]string{" "}, WithTokenHeader("Authorization-Token")))
	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	req.Header.Set("Authorization-Token", " ")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want=%d", rr.Code, http.StatusForbidden)
	}
}
