package client

import (
	"errors"
	"io"
)

// ErrBodyTooLarge is returned by ReadAllAndCloseLimit when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("client: response body too large")

// ReadAllAndCloseLimit reads at most limit bytes from body and always closes it.
//
// A body longer than limit yields ErrBodyTooLarge. limit < 0 is treated as 0.
func ReadAllAndCloseLimit(body io.ReadCloser, limit int64) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	defer body.Close()
	if limit < 0 {
		limit = 0
	}
	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}
