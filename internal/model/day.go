package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date without a time of day.
type Day struct {
	t time.Time
}

// NewDay returns the date y-m-d.
func NewDay(y int, m time.Month, d int) Day {
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Today returns the local calendar date.
func Today() Day { return DayOf(time.Now()) }

// ParseDay parses "YYYY-MM-DD".
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// Time returns midnight of d in UTC.
func (d Day) Time() time.Time { return d.t }

func (d Day) Year() int             { return d.t.Year() }
func (d Day) Month() time.Month     { return d.t.Month() }
func (d Day) Date() int             { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Next() Day         { return d.AddDays(1) }
func (d Day) Prev() Day         { return d.AddDays(-1) }

// NextWorkDay skips Saturday and Sunday.
func (d Day) NextWorkDay() Day {
	n := d.Next()
	for n.IsWeekend() {
		n = n.Next()
	}
	return n
}

// PrevWorkDay skips Saturday and Sunday.
func (d Day) PrevWorkDay() Day {
	p := d.Prev()
	for p.IsWeekend() {
		p = p.Prev()
	}
	return p
}

func (d Day) IsWeekend() bool {
	wd := d.t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) IsZero() bool      { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format(dayLayout) }

func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
