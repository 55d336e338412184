// Package boost holds the touch boost tunables and their acceptance rules.
//
// A Store owns exactly three fields:
//
//   - FieldEnabled    ("boost-enabled"):     0 or 1
//   - FieldLevel      ("boost-level"):       one entry of the legal-level set (kHz)
//   - FieldDurationMs ("boost-duration-ms"): 0..10000 inclusive
//
// # Read / write semantics
//
//   - Get (and the typed accessors) is lock-free, allocation-free and never blocks.
//   - Set validates first, then commits under a per-field write lock. A rejected
//     Set leaves the field untouched.
//   - Writes to the same field are serialized; writes to different fields are
//     independent.
//
// # Legal levels
//
// FieldLevel is validated against a LevelSource that is asked for the current
// set on every Set. Nothing is cached. If the source fails, Set returns
// ErrUnavailable; if the value is not in the set, Set returns ErrInvalidValue.
// A level that was accepted once is never re-checked, even if the source later
// stops listing it.
//
// # Callbacks
//
// WithOnChange registers callbacks that run synchronously after a commit, while
// the field's write lock is held. They must be fast, must not block and must not
// write the same field (that returns ErrReentrantWrite). Panics are recovered
// and swallowed.
//
// # Quick start
//
//	st, _ := boost.New(boost.WithLevelSource(boost.StaticLevels(300000, 600000, 900000)))
//	_ = st.Set(boost.FieldLevel, 600000)
//	_ = st.Level() // 600000
package boost
