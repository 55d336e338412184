package boost

import (
	"fmt"
	"slices"
)

// LevelSource supplies the legal-level set.
//
// Levels is called once per FieldLevel write. It should return quickly; the
// returned slice is owned by the caller. A non-nil error means the set could
// not be retrieved and is surfaced as ErrUnavailable.
type LevelSource interface {
	Levels() ([]uint64, error)
}

// LevelSourceFunc adapts a function to LevelSource.
type LevelSourceFunc func() ([]uint64, error)

func (f LevelSourceFunc) Levels() ([]uint64, error) { return f() }

// StaticLevels returns a LevelSource that always reports the given levels.
func StaticLevels(levels ...uint64) LevelSource {
	cp := slices.Clone(levels)
	return LevelSourceFunc(func() ([]uint64, error) {
		return slices.Clone(cp), nil
	})
}

// LegalLevels asks the level source for the current legal-level set.
//
// Errors wrap ErrUnavailable. It does not touch any field.
func (s *Store) LegalLevels() ([]uint64, error) { return s.fetchLevels() }

func (s *Store) fetchLevels() ([]uint64, error) {
	if s.levels == nil {
		return nil, fmt.Errorf("%w: no level source", ErrUnavailable)
	}
	levels, err := s.levels.Levels()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return levels, nil
}

func containsLevel(levels []uint64, raw int64) bool {
	if raw < 0 {
		return false
	}
	return slices.Contains(levels, uint64(raw))
}
