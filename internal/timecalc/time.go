package timecalc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

var (
	ErrInvalidTime = errors.New("invalid time")
	ErrTooEarly    = errors.New("time too early")
	ErrTooLate     = errors.New("time too late")
)

// Time is a wall-clock time with minute granularity. Valid values are
// 00:00 through 23:59 plus 24:00, which marks the end of the day.
// The zero value is midnight.
type Time struct {
	h, m uint8
}

var (
	Midnight = Time{}
	EndOfDay = Time{h: 24}
)

// HM returns h:m and panics if the pair is not a valid Time.
// A minute value of 60 carries into the next hour.
func HM(h, m int) Time {
	t, err := NewTime(h, m)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTime returns h:m or ErrInvalidTime.
func NewTime(h, m int) (Time, error) {
	if m == minutesPerHour {
		h, m = h+1, 0
	}
	if h < 0 || m < 0 || m >= minutesPerHour || h > 24 || (h == 24 && m != 0) {
		return Time{}, fmt.Errorf("%w: %d:%02d", ErrInvalidTime, h, m)
	}
	return Time{h: uint8(h), m: uint8(m)}, nil
}

// FromMinutes converts minutes since midnight, clamped to [00:00, 24:00].
func FromMinutes(n int) Time {
	n = clamp(n, 0, minutesPerDay)
	return Time{h: uint8(n / minutesPerHour), m: uint8(n % minutesPerHour)}
}

// Clock returns the wall-clock time of t.
func Clock(t time.Time) Time {
	return Time{h: uint8(t.Hour()), m: uint8(t.Minute())}
}

func (t Time) Hour() int   { return int(t.h) }
func (t Time) Minute() int { return int(t.m) }

// Minutes returns the minutes since midnight.
func (t Time) Minutes() int {
	return int(t.h)*minutesPerHour + int(t.m)
}

func (t Time) Compare(o Time) int {
	switch a, b := t.Minutes(), o.Minutes(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (t Time) Before(o Time) bool { return t.Minutes() < o.Minutes() }
func (t Time) After(o Time) bool  { return t.Minutes() > o.Minutes() }

// Sub returns t - o.
func (t Time) Sub(o Time) Relative {
	return Minutes(t.Minutes() - o.Minutes())
}

// TryAdd returns t + r, or false when the result leaves [00:00, 24:00].
func (t Time) TryAdd(r Relative) (Time, bool) {
	n := t.Minutes() + r.Minutes()
	if n < 0 || n > minutesPerDay {
		return Time{}, false
	}
	return FromMinutes(n), true
}

// AddSat returns t + r saturated to [00:00, 24:00].
func (t Time) AddSat(r Relative) Time {
	return FromMinutes(t.Minutes() + r.Minutes())
}

// Round snaps t to a multiple of res minutes since midnight.
func (t Time) Round(mode RoundMode, res int) Time {
	return FromMinutes(roundMinutes(t.Minutes(), mode, res))
}

// On returns the instant of t on the calendar day of d.
func (t Time) On(d time.Time) time.Time {
	y, mo, day := d.Date()
	return time.Date(y, mo, day, 0, 0, 0, 0, d.Location()).Add(time.Duration(t.Minutes()) * time.Minute)
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.h, t.m)
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Time) UnmarshalText(b []byte) error {
	v, err := ParseTime(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTime accepts "H", "HH", "H:MM", "HH:MM", "HMM", "HHMM" and decimal
// hours "H.P" or "H,P" where P is a percentage of an hour ("8.5" is 08:30).
// "24:00" is accepted as end of day.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	bad := func() (Time, error) { return Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s) }
	if s == "" || len(s) > 5 || strings.ContainsAny(s, "+-") {
		return bad()
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hv, err1 := strconv.Atoi(h)
		mv, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || len(m) != 2 || mv >= minutesPerHour {
			return bad()
		}
		return NewTime(hv, mv)
	}

	if i := strings.IndexAny(s, ".,"); i >= 0 {
		hv, err1 := strconv.Atoi(s[:i])
		frac := s[i+1:]
		pv, err2 := strconv.Atoi(frac)
		if err1 != nil || err2 != nil || frac == "" || hv >= 24 {
			return bad()
		}
		if len(frac) == 1 {
			pv *= 10
		}
		if pv >= 100 {
			return bad()
		}
		return NewTime(hv, pv*6/10)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return bad()
	}
	switch {
	case n <= 24:
		return NewTime(n, 0)
	case n >= 100 && n <= 2400:
		if n%100 >= minutesPerHour {
			return bad()
		}
		return NewTime(n/100, n%100)
	}
	return bad()
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
