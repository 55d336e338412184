package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evan-idocoding/touchboost/attr"
	"github.com/evan-idocoding/touchboost/attr/attrhttp"
	"github.com/evan-idocoding/touchboost/rt/boost"
)

func newAttrServer(t *testing.T, src boost.LevelSource) *Attrs {
	t.Helper()
	st, err := boost.New(boost.WithLevelSource(src))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/touchboost_switch/", http.StripPrefix("/touchboost_switch", attrhttp.NewHandler(attr.New(st))))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a, err := NewAttrs(srv.URL+"/touchboost_switch/", nil)
	require.NoError(t, err)
	return a
}

func TestAttrs_ListGetSet(t *testing.T) {
	a := newAttrServer(t, boost.StaticLevels(0, 1200, 1500))
	ctx := context.Background()

	names, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"boost-enabled", "boost-level", "boost-duration-ms"}, names)

	n, err := a.Set(ctx, "boost-level", []byte("1500\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := a.Get(ctx, "boost-level")
	require.NoError(t, err)
	assert.Equal(t, "1500 - Touchboost frequency\n", got)
}

func TestAttrs_ErrorsCarryKind(t *testing.T) {
	a := newAttrServer(t, boost.LevelSourceFunc(func() ([]uint64, error) {
		return nil, errors.New("cpufreq offline")
	}))
	ctx := context.Background()

	cases := []struct {
		name    string
		payload string
		code    int
		kind    string
	}{
		{"boost-enabled", "2", http.StatusBadRequest, "invalid_value"},
		{"boost-duration-ms", "abc", http.StatusBadRequest, "malformed_input"},
		{"boost-level", "1200", http.StatusServiceUnavailable, "unavailable"},
		{"nope", "1", http.StatusNotFound, "not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := a.Set(ctx, tc.name, []byte(tc.payload))
			assert.Zero(t, n)
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.code, se.Code)
			assert.Equal(t, tc.kind, se.Kind)
			assert.NotEmpty(t, se.Msg)
		})
	}
}

func TestNewAttrs_RejectsBadBase(t *testing.T) {
	_, err := NewAttrs("ftp://example.test", nil)
	assert.Error(t, err)
	_, err = NewAttrs("://", nil)
	assert.Error(t, err)
}

func TestStatusError_PlainBody(t *testing.T) {
	se := statusError(http.StatusBadGateway, []byte("upstream went away\n"))
	assert.Equal(t, "", se.Kind)
	assert.Equal(t, "upstream went away", se.Msg)
	assert.Contains(t, se.Error(), "502")
}
