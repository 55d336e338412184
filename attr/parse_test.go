package attr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt_Accepts(t *testing.T) {
	cases := map[string]int64{
		"0":                    0,
		"1\n":                  1,
		"  42  ":               42,
		"\t-7\n":               -7,
		"+15":                  15,
		"1497600\n":            1497600,
		"9223372036854775807":  9223372036854775807,
		"-9223372036854775808": -9223372036854775808,
	}
	for in, want := range cases {
		got, err := ParseInt([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseInt_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"   \n",
		"abc",
		"12abc",
		"1 2",
		"0x10",
		"1.5",
		"--1",
		"9223372036854775808",
	} {
		_, err := ParseInt([]byte(in))
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMalformedInput), "input %q: %v", in, err)
		assert.Equal(t, KindMalformedInput, KindOf(err))
	}
}

func TestParseInt_LongPayloadTruncatedInError(t *testing.T) {
	in := make([]byte, 200)
	for i := range in {
		in[i] = 'x'
	}
	_, err := ParseInt(in)
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 100)
}
