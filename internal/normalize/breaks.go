package normalize

import (
	"slices"

	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// BreaksInfo summarizes an ordered sequence of intervals.
type BreaksInfo struct {
	WorkTime  timecalc.Relative `json:"work_minutes"`
	BreakTime timecalc.Relative `json:"break_minutes"`
	Breaks    []timecalc.Range  `json:"breaks"`
}

// BreaksConfig controls automatic break insertion.
type BreaksConfig struct {
	// MinBreakMinutes is the minimum length of a booking that may be cut;
	// zero disables insertion.
	MinBreakMinutes int
	// MinWorkTimeMinutes is the work time from which a break is required.
	MinWorkTimeMinutes int
	DefaultBreak       timecalc.Range
}

// AnalyzeBreaks sums the durations of ranges as work time and the gaps
// between consecutive ranges as break time.
func AnalyzeBreaks(ranges []timecalc.Range) BreaksInfo {
	info := BreaksInfo{Breaks: []timecalc.Range{}}
	for i, r := range ranges {
		info.WorkTime = info.WorkTime.Add(r.Duration())
		if i == 0 {
			continue
		}
		gap := timecalc.NewRange(ranges[i-1].Max(), r.Min())
		info.BreakTime = info.BreakTime.Add(gap.Duration())
		if !gap.IsEmpty() {
			info.Breaks = append(info.Breaks, gap)
		}
	}
	return info
}

// insertBreak cuts the configured break out of the first implicit booking
// that is long enough and touches the break window. At most one booking
// changes.
func insertBreak(cfg BreaksConfig, entries []Booking) []Booking {
	window := cfg.DefaultBreak
	idx := slices.IndexFunc(entries, func(b Booking) bool {
		return b.Implicit &&
			b.Duration().Minutes() >= cfg.MinBreakMinutes &&
			window.Overlaps(b.Range())
	})
	if idx < 0 {
		return entries
	}

	target := entries[idx]
	r := target.Range()
	var parts []timecalc.Range
	switch {
	case r.Covers(window):
		before, after := r.Split(window)
		parts = append(parts, before, after)
	case window.Min().Before(r.Min()):
		parts = append(parts, r.WithMin(r.Min().AddSat(window.Duration())))
	default:
		parts = append(parts, r.WithMax(r.Max().AddSat(window.Duration().Neg())))
	}

	replacement := make([]Booking, 0, len(parts))
	for _, p := range parts {
		if p.IsEmpty() {
			continue
		}
		b := target
		b.Start, b.End = p.Min(), p.Max()
		replacement = append(replacement, b)
	}
	return slices.Replace(slices.Clone(entries), idx, idx+1, replacement...)
}
