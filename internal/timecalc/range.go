package timecalc

import (
	"fmt"
	"strings"
)

// Range is the closed interval [Min, Max] of wall-clock times.
// A range with Min >= Max is empty.
type Range struct {
	min, max Time
}

// NewRange returns [from, to]. When from is after to it is clamped down to
// to, producing an empty range rather than an inverted one.
func NewRange(from, to Time) Range {
	if from.After(to) {
		from = to
	}
	return Range{min: from, max: to}
}

// WholeDay is [00:00, 24:00].
func WholeDay() Range { return Range{min: Midnight, max: EndOfDay} }

func (r Range) Min() Time { return r.min }
func (r Range) Max() Time { return r.max }

func (r Range) IsEmpty() bool { return !r.min.Before(r.max) }

func (r Range) Duration() Relative { return r.max.Sub(r.min) }

// Contains reports whether t lies in [Min, Max].
func (r Range) Contains(t Time) bool {
	return !t.Before(r.min) && !t.After(r.max)
}

// Check returns nil when t lies in r, ErrTooEarly or ErrTooLate otherwise.
func (r Range) Check(t Time) error {
	switch {
	case t.Before(r.min):
		return fmt.Errorf("%w: %s before %s", ErrTooEarly, t, r.min)
	case t.After(r.max):
		return fmt.Errorf("%w: %s after %s", ErrTooLate, t, r.max)
	}
	return nil
}

// Overlaps reports whether r and o share at least one instant. Ranges that
// only touch at an end point overlap.
func (r Range) Overlaps(o Range) bool {
	return !r.min.After(o.max) && !o.min.After(r.max)
}

// Covers reports whether o lies completely inside r.
func (r Range) Covers(o Range) bool {
	return !r.min.After(o.min) && !r.max.Before(o.max)
}

// WithMin replaces the lower bound. An earlier t extends the range.
func (r Range) WithMin(t Time) Range { return NewRange(t, r.max) }

// WithMax replaces the upper bound. A later t extends the range.
func (r Range) WithMax(t Time) Range { return NewRange(r.min, t) }

// Clamp returns t limited to [Min, Max].
func (r Range) Clamp(t Time) Time {
	switch {
	case t.Before(r.min):
		return r.min
	case t.After(r.max):
		return r.max
	}
	return t
}

// SplitAt returns the parts of r before and after t. Both parts lie
// inside r.
func (r Range) SplitAt(t Time) (Range, Range) {
	t = r.Clamp(t)
	return r.WithMax(t), r.WithMin(t)
}

// Split removes exclude from r and returns what remains on either side.
// Both parts lie inside r.
func (r Range) Split(exclude Range) (Range, Range) {
	return r.WithMax(r.Clamp(exclude.min)), r.WithMin(r.Clamp(exclude.max))
}

// Extend grows r so that it contains t.
func (r Range) Extend(t Time) Range {
	switch {
	case t.Before(r.min):
		return Range{min: t, max: r.max}
	case t.After(r.max):
		return Range{min: r.min, max: t}
	}
	return r
}

// Normalize rounds t with mode when it lies in r. Outside of r the
// saturating modes snap to the nearest boundary that is a multiple of res
// and lies inside r; every other mode reports ErrTooEarly or ErrTooLate.
func (r Range) Normalize(t Time, mode RoundMode, res int) (Time, error) {
	if err := r.Check(t); err != nil {
		if !mode.IsSat() {
			return Time{}, err
		}
		if t.Before(r.min) {
			return r.min.Round(RoundUp, res), nil
		}
		return r.max.Round(RoundDown, res), nil
	}
	return t.Round(mode, res), nil
}

func (r Range) String() string {
	return r.min.String() + "-" + r.max.String()
}

func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(b []byte) error {
	from, to, ok := strings.Cut(string(b), "-")
	if !ok {
		return fmt.Errorf("%w: range %q", ErrInvalidTime, b)
	}
	lo, err := ParseTime(from)
	if err != nil {
		return err
	}
	hi, err := ParseTime(to)
	if err != nil {
		return err
	}
	*r = NewRange(lo, hi)
	return nil
}
