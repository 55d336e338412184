package attr

import (
	"bytes"
	"fmt"
	"strconv"
)

// ParseInt parses payload as a single base-10 integer.
//
// Leading and trailing whitespace (including the newline added by echo) is
// ignored, and a leading '+' or '-' is accepted. Empty payloads, trailing
// garbage ("12abc"), several numbers ("1 2") and values that overflow int64
// are ErrMalformedInput. This is stricter than a scanf-style read, which would
// take the leading 12 of "12abc" and ignore the rest.
func ParseInt(payload []byte) (int64, error) {
	s := bytes.TrimSpace(payload)
	if len(s) == 0 {
		return 0, fmt.Errorf("%w: no integer found", ErrMalformedInput)
	}
	v, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a base-10 integer", ErrMalformedInput, truncate(s, 32))
	}
	return v, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
