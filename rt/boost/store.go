package boost

import (
	"fmt"
	"time"
)

// Default values used when no With*Default option is given.
const (
	DefaultEnabled    = true
	DefaultLevel      = 0
	DefaultDurationMs = 40
)

type config struct {
	levels LevelSource

	enabled    bool
	level      uint64
	durationMs uint64

	onChange []func(Field, uint64)
}

// Option configures a Store at construction time.
type Option func(*config)

// WithLevelSource sets the source of the legal-level set.
//
// Without a source every FieldLevel write fails with ErrUnavailable.
func WithLevelSource(src LevelSource) Option {
	return func(c *config) { c.levels = src }
}

// WithDefaultEnabled sets the initial value of FieldEnabled.
func WithDefaultEnabled(v bool) Option {
	return func(c *config) { c.enabled = v }
}

// WithDefaultLevel sets the initial value of FieldLevel.
//
// The default is not checked against the level source, which may not be
// reachable at construction time.
func WithDefaultLevel(v uint64) Option {
	return func(c *config) { c.level = v }
}

// WithDefaultDurationMs sets the initial value of FieldDurationMs.
func WithDefaultDurationMs(v uint64) Option {
	return func(c *config) { c.durationMs = v }
}

// WithOnChange appends a callback invoked after every successful write of any field.
//
// Callbacks run synchronously on the writing goroutine after the field lock is
// released, in registration order, even if the value did not change. Callbacks
// of concurrent writes may interleave. A callback may write other fields; a
// write to the field it was notified about returns ErrReentrantWrite. Panics
// are recovered and swallowed.
func WithOnChange(fn func(f Field, newValue uint64)) Option {
	return func(c *config) {
		if fn != nil {
			c.onChange = append(c.onChange, fn)
		}
	}
}

// Store holds the current value and rule of each touch boost tunable.
//
// It is safe for concurrent use.
type Store struct {
	fields [fieldCount]*fieldVar
	levels LevelSource

	onChange []func(Field, uint64)
}

// New creates a Store with the given options.
func New(opts ...Option) (*Store, error) {
	cfg := config{
		enabled:    DefaultEnabled,
		level:      DefaultLevel,
		durationMs: DefaultDurationMs,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.durationMs > DurationMsMax {
		return nil, fmt.Errorf("%w: default %s %d exceeds %d", ErrInvalidConfig, FieldDurationMs, cfg.durationMs, DurationMsMax)
	}

	var enabled uint64
	if cfg.enabled {
		enabled = 1
	}
	s := &Store{
		levels:   cfg.levels,
		onChange: cfg.onChange,
	}
	s.fields[FieldEnabled] = newFieldVar(FieldEnabled, enabled)
	s.fields[FieldLevel] = newFieldVar(FieldLevel, cfg.level)
	s.fields[FieldDurationMs] = newFieldVar(FieldDurationMs, cfg.durationMs)
	return s, nil
}

// Get returns the current value of f. Unknown fields read as 0.
//
// It is lock-free, allocation-free and non-blocking.
func (s *Store) Get(f Field) uint64 {
	if !f.valid() {
		return 0
	}
	return s.fields[f].get()
}

// Enabled reports whether boosting is enabled.
func (s *Store) Enabled() bool { return s.fields[FieldEnabled].get() == 1 }

// Level returns the boost level in kHz.
func (s *Store) Level() uint64 { return s.fields[FieldLevel].get() }

// DurationMs returns the boost pulse length in milliseconds.
func (s *Store) DurationMs() uint64 { return s.fields[FieldDurationMs].get() }

// Duration returns the boost pulse length.
func (s *Store) Duration() time.Duration {
	return time.Duration(s.DurationMs()) * time.Millisecond
}

// Set validates raw against the rule of f and commits it.
//
// On any error the field keeps its previous value.
func (s *Store) Set(f Field, raw int64) error {
	if !f.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	if err := s.validate(f, raw); err != nil {
		return err
	}
	return s.commit(s.fields[f], uint64(raw))
}

// Validate checks raw against the rule of f without committing it.
func (s *Store) Validate(f Field, raw int64) error {
	if !f.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	return s.validate(f, raw)
}

func (s *Store) validate(f Field, raw int64) error {
	switch f {
	case FieldEnabled:
		if raw != 0 && raw != 1 {
			return fmt.Errorf("%w: %q must be 0 or 1, got %d", ErrInvalidValue, f, raw)
		}
	case FieldDurationMs:
		if raw < DurationMsMin {
			return fmt.Errorf("%w: %q must be >= %d, got %d", ErrInvalidValue, f, DurationMsMin, raw)
		}
		if raw > DurationMsMax {
			return fmt.Errorf("%w: %q must be <= %d, got %d", ErrInvalidValue, f, DurationMsMax, raw)
		}
	case FieldLevel:
		levels, err := s.fetchLevels()
		if err != nil {
			return err
		}
		if !containsLevel(levels, raw) {
			return fmt.Errorf("%w: %q %d is not a legal level", ErrInvalidValue, f, raw)
		}
	}
	return nil
}

func (s *Store) commit(v *fieldVar, newValue uint64) error {
	if err := v.lockWrite(len(s.onChange) != 0); err != nil {
		return err
	}
	v.hasLast = true
	v.last = v.cur.Load()
	v.store(newValue)
	v.unlockWrite()

	v.notify(s.onChange, newValue)
	return nil
}

// ResetToDefault sets f back to its initial default value.
func (s *Store) ResetToDefault(f Field) error {
	if !f.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	v := s.fields[f]
	return s.commit(v, v.def)
}

// ResetToLastValue restores the value f had before its last write (undo one step).
//
// After a successful undo there is no further last value until the next write.
// The restored value was accepted before and is not re-validated.
func (s *Store) ResetToLastValue(f Field) error {
	if !f.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	v := s.fields[f]
	if err := v.lockWrite(len(s.onChange) != 0); err != nil {
		return err
	}
	if !v.hasLast {
		v.unlockWrite()
		return fmt.Errorf("%w: %q", ErrNoLastValue, f)
	}
	newValue := v.last
	v.hasLast = false
	v.store(newValue)
	v.unlockWrite()

	v.notify(s.onChange, newValue)
	return nil
}

// Lookup returns a point-in-time view of f.
func (s *Store) Lookup(f Field) (Item, bool) {
	if !f.valid() {
		return Item{}, false
	}
	return s.item(f), true
}

// Snapshot returns a point-in-time view of all fields.
//
// Each item is individually consistent; the snapshot as a whole is not atomic.
func (s *Store) Snapshot() Snapshot {
	out := Snapshot{Items: make([]Item, 0, fieldCount)}
	for _, f := range Fields() {
		out.Items = append(out.Items, s.item(f))
	}
	return out
}

func (s *Store) item(f Field) Item {
	v := s.fields[f]
	it := Item{
		Field:         f,
		Name:          f.String(),
		Value:         v.get(),
		DefaultValue:  v.def,
		Source:        Source(v.source.Load()),
		LastUpdatedAt: v.lastUpdatedAt(),
	}
	switch f {
	case FieldEnabled:
		lo, hi := uint64(0), uint64(1)
		it.Constraints = Constraints{Min: &lo, Max: &hi}
	case FieldDurationMs:
		lo, hi := uint64(DurationMsMin), uint64(DurationMsMax)
		it.Constraints = Constraints{Min: &lo, Max: &hi}
	case FieldLevel:
		it.Constraints = Constraints{LegalLevels: true}
	}
	return it
}
