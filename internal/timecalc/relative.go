package timecalc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidRelative is returned for unparseable relative durations.
var ErrInvalidRelative = errors.New("invalid relative time")

// maxRelative bounds the magnitude of a Relative to one full day.
const maxRelative = minutesPerDay

// Relative is a signed duration in whole minutes. Arithmetic saturates at
// plus or minus one day.
type Relative int

// Zero is the empty duration.
const Zero Relative = 0

// Minutes returns n minutes, saturated to one day in either direction.
func Minutes(n int) Relative {
	return Relative(clamp(n, -maxRelative, maxRelative))
}

// NewRelative builds a Relative from a sign and an (h, m) magnitude.
func NewRelative(neg bool, h, m int) (Relative, error) {
	if h < 0 || m < 0 || m >= minutesPerHour || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %dh%dm", ErrInvalidRelative, h, m)
	}
	n := h*minutesPerHour + m
	if neg {
		n = -n
	}
	return Relative(n), nil
}

func (r Relative) Minutes() int { return int(r) }

func (r Relative) IsNegative() bool { return r < 0 }

func (r Relative) Neg() Relative { return -r }

func (r Relative) Add(o Relative) Relative { return Minutes(int(r) + int(o)) }

func (r Relative) Sub(o Relative) Relative { return Minutes(int(r) - int(o)) }

func (r Relative) Abs() Relative {
	if r < 0 {
		return -r
	}
	return r
}

// Sign returns -1, 0 or 1.
func (r Relative) Sign() int {
	switch {
	case r < 0:
		return -1
	case r > 0:
		return 1
	}
	return 0
}

// Round snaps the magnitude of r to a multiple of res, keeping the sign.
func (r Relative) Round(mode RoundMode, res int) Relative {
	n := roundMinutes(int(r.Abs()), mode, res)
	if r < 0 {
		n = -n
	}
	return Minutes(n)
}

// String renders r as "0", or a sign followed by the non-zero hour and
// minute components: "+1h30m", "-15m", "+2h".
func (r Relative) String() string {
	if r == 0 {
		return "0"
	}
	var b strings.Builder
	if r < 0 {
		b.WriteByte('-')
	} else {
		b.WriteByte('+')
	}
	abs := int(r.Abs())
	if h := abs / minutesPerHour; h != 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m := abs % minutesPerHour; m != 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	return b.String()
}

var (
	relativeHourPattern   = regexp.MustCompile(`^([+-]?)(\d{1,2})h(?:(\d{1,2})m?)?$`)
	relativeMinutePattern = regexp.MustCompile(`^([+-]?)(\d{1,4})m?$`)
)

// ParseRelative accepts "+90", "-15m", "1h", "+1h15m" and "now" (zero).
func ParseRelative(s string) (Relative, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "now" || s == "n" {
		return Zero, nil
	}
	if m := relativeHourPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[2])
		mins := 0
		if m[3] != "" {
			mins, _ = strconv.Atoi(m[3])
		}
		return NewRelative(m[1] == "-", h, mins)
	}
	if m := relativeMinutePattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[2])
		if n > maxRelative {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRelative, s)
		}
		if m[1] == "-" {
			n = -n
		}
		return Relative(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRelative, s)
}
