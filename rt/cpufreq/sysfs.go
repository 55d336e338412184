package cpufreq

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/evan-idocoding/touchboost/rt/boost"
)

// DefaultRoot is the sysfs mount point.
const DefaultRoot = "/sys"

var (
	// ErrNoTable indicates neither table file exists for the policy.
	ErrNoTable = errors.New("cpufreq: no frequency table")
	// ErrEmptyTable indicates a table file exists but lists no frequency.
	ErrEmptyTable = errors.New("cpufreq: empty frequency table")
	// ErrMalformedTable indicates a table entry is not a base-10 unsigned integer.
	ErrMalformedTable = errors.New("cpufreq: malformed frequency table")
)

// Sysfs reads the frequency table of one CPU policy from sysfs.
//
// The zero value reads cpu0 under DefaultRoot.
type Sysfs struct {
	// Root is the sysfs mount point. Empty means DefaultRoot.
	Root string
	// CPU is the CPU whose policy table is read.
	CPU int
}

var _ boost.LevelSource = Sysfs{}

// Levels returns the legal levels of the policy, ascending and de-duplicated.
func (s Sysfs) Levels() ([]uint64, error) {
	dir := s.policyDir()

	levels, err := ReadAvailableFrequencies(filepath.Join(dir, "scaling_available_frequencies"))
	switch {
	case err == nil:
		return levels, nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrEmptyTable):
		// fall through to stats
	default:
		return nil, err
	}

	levels, err = ReadTimeInState(filepath.Join(dir, "stats", "time_in_state"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: cpu%d under %s", ErrNoTable, s.CPU, s.root())
	}
	return levels, err
}

func (s Sysfs) root() string {
	if s.Root == "" {
		return DefaultRoot
	}
	return s.Root
}

func (s Sysfs) policyDir() string {
	return filepath.Join(s.root(), "devices", "system", "cpu", "cpu"+strconv.Itoa(s.CPU), "cpufreq")
}

// ReadAvailableFrequencies parses a scaling_available_frequencies file:
// whitespace separated kHz values on a single line.
func ReadAvailableFrequencies(path string) ([]uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	out := make([]uint64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q", ErrMalformedTable, path, f)
		}
		out = append(out, v)
	}
	return normalize(out), nil
}

// ReadTimeInState parses a stats/time_in_state file: one "<kHz> <time>" pair per line.
func ReadTimeInState(path string) ([]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []uint64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q", ErrMalformedTable, path, fields[0])
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	return normalize(out), nil
}

func normalize(levels []uint64) []uint64 {
	slices.Sort(levels)
	return slices.Compact(levels)
}
