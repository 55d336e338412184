package boost

import (
	"fmt"
	"time"
)

// Field identifies one tunable.
type Field int

const (
	FieldEnabled Field = iota
	FieldLevel
	FieldDurationMs

	fieldCount
)

// Duration bounds in milliseconds (inclusive).
const (
	DurationMsMin = 0
	DurationMsMax = 10000
)

var fieldNames = [fieldCount]string{
	FieldEnabled:    "boost-enabled",
	FieldLevel:      "boost-level",
	FieldDurationMs: "boost-duration-ms",
}

// String returns the endpoint name of the field.
func (f Field) String() string {
	if !f.valid() {
		return "unknown"
	}
	return fieldNames[f]
}

func (f Field) valid() bool { return f >= 0 && f < fieldCount }

// Fields returns all fields in a stable order.
func Fields() []Field {
	return []Field{FieldEnabled, FieldLevel, FieldDurationMs}
}

// ParseField maps an endpoint name ("boost-level", ...) to its Field.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Source indicates where the current effective value comes from.
type Source int

const (
	SourceDefault Source = iota
	SourceRuntimeSet
)

func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceRuntimeSet:
		return "runtime-set"
	default:
		return "unknown"
	}
}

// MarshalText renders the source by name in JSON outputs.
func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses the names produced by MarshalText.
func (s *Source) UnmarshalText(b []byte) error {
	switch string(b) {
	case "default":
		*s = SourceDefault
	case "runtime-set":
		*s = SourceRuntimeSet
	default:
		return fmt.Errorf("boost: unknown source %q", b)
	}
	return nil
}

// Constraints summarizes the rule attached to a field.
type Constraints struct {
	Min *uint64 `json:"min,omitempty"`
	Max *uint64 `json:"max,omitempty"`

	// LegalLevels is set when the value must be a member of the legal-level set.
	LegalLevels bool `json:"legalLevels,omitempty"`
}

// Item is a point-in-time view of a single field.
type Item struct {
	Field Field  `json:"-"`
	Name  string `json:"name"`

	Value        uint64 `json:"value"`
	DefaultValue uint64 `json:"defaultValue"`

	Source Source `json:"source"`

	// LastUpdatedAt is the time of the last successful write. Zero means never written.
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`

	Constraints Constraints `json:"constraints"`
}

// Snapshot is a view of all fields, in Fields() order.
type Snapshot struct {
	Items []Item `json:"items"`
}
