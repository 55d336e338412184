package ops_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/ops"
	"github.com/evan-idocoding/touchboost/rt/boost"
)

func ExampleHealthzHandler() {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ops.HealthzHandler().ServeHTTP(rr, req)

	fmt.Print(rr.Body.String())

	// Output:
	// ok
}

func ExampleLogLevelSetHandler() {
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelInfo)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/?level=warn", nil)
	ops.LogLevelSetHandler(lv).ServeHTTP(rr, req)

	fmt.Print(rr.Body.String())

	// Output:
	// log	old_level	info
	// log	old_level_value	0
	// log	new_level	warn
	// log	new_level_value	4
}

func ExampleAttrShowHandler() {
	st, _ := boost.New(boost.WithLevelSource(boost.StaticLevels(300000)))
	g := attr.New(st, attr.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?name=boost-enabled", nil)
	ops.AttrShowHandler(g).ServeHTTP(rr, req)

	fmt.Print(rr.Body.String())

	// Output:
	// attr	boost-enabled	value	1
	// attr	boost-enabled	default	1
	// attr	boost-enabled	source	default
	// attr	boost-enabled	min	0
	// attr	boost-enabled	max	1
}
