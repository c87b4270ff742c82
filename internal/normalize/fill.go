package normalize

import (
	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

const defaultDescription = "work"

// withinRange reports whether a belongs to the span r. A WorkStart before
// the span still belongs to it so that the span can be attributed to the
// issue it starts.
func withinRange(r timecalc.Range, a model.Action) bool {
	if ws, ok := a.(model.WorkStart); ok {
		return !ws.At.After(r.Max())
	}
	start, end, hasEnd := a.Times()
	return r.Contains(start) || (hasEnd && r.Contains(end))
}

// unbookedTimes subtracts the chronologically ordered bookings from target.
func unbookedTimes(target timecalc.Range, work []Booking) []timecalc.Range {
	var out []timecalc.Range
	rest := target
	for _, w := range work {
		if rest.IsEmpty() {
			return out
		}
		if !w.End.After(rest.Min()) {
			continue
		}
		before := rest.WithMax(w.Start)
		if !before.IsEmpty() {
			out = append(out, before)
		}
		rest = rest.WithMin(w.End)
	}
	if !rest.IsEmpty() {
		out = append(out, rest)
	}
	return out
}

// fillGap books every unbooked part of target on the active issue.
// Without an active issue the unbooked parts are returned as a *GapError.
func fillGap(target timecalc.Range, active *model.Issue, work []Booking) ([]Booking, error) {
	sortBookings(work)
	unbooked := unbookedTimes(target, work)
	if len(unbooked) == 0 {
		return work, nil
	}
	if active == nil {
		return work, &GapError{Ranges: unbooked}
	}

	description := active.DefaultAction
	if description == "" {
		description = defaultDescription
	}
	for _, r := range unbooked {
		work = append(work, Booking{
			ID:          active.ID,
			Description: description,
			Start:       r.Min(),
			End:         r.Max(),
			Implicit:    true,
		})
	}
	sortBookings(work)
	return work, nil
}

// fillRange resolves the span r. Actions belonging to r are removed from
// set; active carries the active issue into and out of the span.
func fillRange(r timecalc.Range, active **model.Issue, set *model.ActionSet) (FilledRange, error) {
	var overlapping []model.Action
	set.Ascend(func(a model.Action) bool {
		if withinRange(r, a) {
			overlapping = append(overlapping, a)
		}
		return true
	})

	var (
		work []Booking
		err  error
	)
	// An issue started before the day start books the early time too.
	span := r
	remaining := r
	for _, a := range overlapping {
		set.Remove(a)
		switch v := a.(type) {
		case model.WorkStart:
			span = span.Extend(v.At)
			if work, err = fillGap(span.WithMax(v.At), *active, work); err != nil {
				return FilledRange{}, err
			}
			remaining = span.WithMin(v.At)
			issue := v.Started()
			*active = &issue
		case model.WorkEnd:
			if work, err = fillGap(span.WithMax(v.At), *active, work); err != nil {
				return FilledRange{}, err
			}
			remaining = span.WithMin(v.At)
			if *active != nil && (*active).ID == v.Issue.ID {
				*active = nil
			}
		case model.Work:
			work = append(work, Booking{
				ID:          v.Issue.ID,
				Description: v.Description,
				Start:       v.Start,
				End:         v.End,
			})
		}
	}

	if work, err = fillGap(remaining, *active, work); err != nil {
		return FilledRange{}, err
	}

	if len(work) == 0 {
		return FilledRange{Span: span}, nil
	}
	return FilledRange{
		Span: timecalc.NewRange(work[0].Start, work[len(work)-1].End),
		Work: work,
	}, nil
}

// freeStanding turns Work actions outside every span into single-booking
// ranges.
func freeStanding(set *model.ActionSet) []FilledRange {
	var out []FilledRange
	set.Ascend(func(a model.Action) bool {
		if w, ok := a.(model.Work); ok {
			out = append(out, FilledRange{
				Span: timecalc.NewRange(w.Start, w.End),
				Work: []Booking{{
					ID:          w.Issue.ID,
					Description: w.Description,
					Start:       w.Start,
					End:         w.End,
				}},
			})
		}
		return true
	})
	return out
}
