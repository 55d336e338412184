package attr

import (
	"errors"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

var (
	// ErrMalformedInput indicates a write payload that is not a single base-10 integer.
	ErrMalformedInput = errors.New("attr: malformed input")
	// ErrNotFound indicates an attribute name the gateway does not expose.
	ErrNotFound = errors.New("attr: attribute not found")
)

// Kind is a short, stable classification of a gateway error.
type Kind string

const (
	KindNone           Kind = ""
	KindMalformedInput Kind = "malformed_input"
	KindInvalidValue   Kind = "invalid_value"
	KindUnavailable    Kind = "unavailable"
	KindNotFound       Kind = "not_found"
	KindNoLastValue    Kind = "no_last_value"
	KindInternal       Kind = "internal"
)

// KindOf classifies err. A nil err is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, boost.ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, boost.ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrNotFound), errors.Is(err, boost.ErrUnknownField):
		return KindNotFound
	case errors.Is(err, boost.ErrNoLastValue):
		return KindNoLastValue
	default:
		return KindInternal
	}
}
