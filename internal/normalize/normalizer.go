// Package normalize turns the recorded actions of a day into a gapless,
// rounded timesheet.
//
// Each DayStart/DayEnd span is filled with explicit bookings and, in the
// gaps, with the issue that is active at that time. Bookings are then
// rounded to the configured resolution with a bounded total error,
// optionally combined per issue, and a configured lunch break is cut out of
// an implicit booking when the day has none.
//
// Normalization works on a copy of the day and performs no I/O.
package normalize

import (
	"fmt"

	"github.com/AndiHofi/quarble-sub000/internal/model"
)

// Normalizer holds the settings for one normalization run.
type Normalizer struct {
	// Resolution in minutes; every booking becomes a multiple of it.
	Resolution      int
	Breaks          BreaksConfig
	CombineBookings bool
	AddBreak        bool
}

// NormalizedDay is the timesheet of one day.
type NormalizedDay struct {
	Date        model.Day    `json:"date"`
	Entries     []model.Work `json:"entries"`
	OrigBreaks  BreaksInfo   `json:"orig_breaks"`
	FinalBreaks BreaksInfo   `json:"final_breaks"`
}

// Normalize computes the timesheet of day. day is not modified.
func (n Normalizer) Normalize(day *model.ActiveDay) (*NormalizedDay, error) {
	if n.Resolution <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, n.Resolution)
	}

	working := day.Clone()
	actions := working.ActionSet()
	active := working.ActiveIssue

	spans, err := daySpans(actions.Items())
	if err != nil {
		return nil, err
	}

	ranges := make([]FilledRange, 0, len(spans))
	for _, span := range spans {
		fr, err := fillRange(span, &active, actions)
		if err != nil {
			return nil, fmt.Errorf("span %s: %w", span, err)
		}
		ranges = append(ranges, fr)
	}
	ranges = append(ranges, freeStanding(actions)...)

	orig := AnalyzeBreaks(spanRanges(ranges))

	var entries []Booking
	for i := range ranges {
		if err := roundBookings(&ranges[i], n.Resolution); err != nil {
			return nil, fmt.Errorf("span %s: %w", ranges[i].Span, err)
		}
		if n.CombineBookings {
			combined, err := combineBookings(ranges[i].Work)
			if err != nil {
				return nil, fmt.Errorf("span %s: %w", ranges[i].Span, err)
			}
			ranges[i].Work = combined
		}
		entries = append(entries, ranges[i].Work...)
	}

	if n.AddBreak &&
		n.Breaks.MinBreakMinutes > 0 &&
		orig.BreakTime == 0 &&
		orig.WorkTime.Minutes() >= n.Breaks.MinWorkTimeMinutes {
		entries = insertBreak(n.Breaks, entries)
	}

	result := &NormalizedDay{
		Date:        day.Day,
		Entries:     make([]model.Work, len(entries)),
		OrigBreaks:  orig,
		FinalBreaks: AnalyzeBreaks(bookingRanges(entries)),
	}
	for i, e := range entries {
		result.Entries[i] = e.Work()
	}
	return result, nil
}
