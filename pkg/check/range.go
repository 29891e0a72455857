package check

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Range is a parsed threshold specification in the conventional
// monitoring-plugins grammar:
//
//	[@]<lo>:<hi>
//
// Either bound may be empty (unbounded on that side), and <lo> may be
// "~" for negative infinity. A bare "<hi>" is shorthand for "0:<hi>".
// A leading "@" inverts the alerting condition. The zero Range (empty
// spec) never alerts.
type Range struct {
	Lo     float64
	Hi     float64
	Invert bool

	spec string
}

// ParseRange parses a threshold specification. A spec that does not
// match the grammar, or whose lower bound exceeds its upper bound, is
// a configuration error.
func ParseRange(spec string) (Range, error) {
	if spec == "" {
		return Range{}, nil
	}

	r := Range{Lo: math.Inf(-1), Hi: math.Inf(1), spec: spec}

	s := spec
	if strings.HasPrefix(s, "@") {
		r.Invert = true
		s = s[1:]
	}

	lo, hi, found := strings.Cut(s, ":")
	if !found {
		// bare number means 0:<hi>
		lo, hi = "0", s
	}

	switch lo {
	case "", "~":
		// unbounded below
	default:
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: bad lower bound %q", spec, lo)
		}
		r.Lo = v
	}

	if hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: bad upper bound %q", spec, hi)
		}
		r.Hi = v
	}

	if r.Lo > r.Hi {
		return Range{}, fmt.Errorf("invalid range %q: lower bound exceeds upper bound", spec)
	}

	return r, nil
}

// MustParseRange is ParseRange for hardcoded specs; it panics on error.
func MustParseRange(spec string) Range {
	r, err := ParseRange(spec)
	if err != nil {
		panic(err)
	}
	return r
}

// Matches reports whether value triggers an alert: outside [Lo, Hi],
// or inside it when the range is inverted. The zero Range never alerts.
func (r Range) Matches(value float64) bool {
	if r.spec == "" {
		return false
	}
	outside := value < r.Lo || value > r.Hi
	if r.Invert {
		return !outside
	}
	return outside
}

// IsSet reports whether the range was built from a non-empty spec.
func (r Range) IsSet() bool {
	return r.spec != ""
}

// String returns the original spec text, as used in perfdata fields.
func (r Range) String() string {
	return r.spec
}
