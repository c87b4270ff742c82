package normalize

import (
	"slices"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// Booking is one resolved interval of work on an issue.
type Booking struct {
	ID          string
	Description string
	Start       timecalc.Time
	End         timecalc.Time
	// Implicit marks time attributed to the active issue by the gap filler
	// rather than entered by the user.
	Implicit bool
}

func (b Booking) Range() timecalc.Range { return timecalc.NewRange(b.Start, b.End) }

// Duration is the absolute length of the booking.
func (b Booking) Duration() timecalc.Relative { return b.End.Sub(b.Start).Abs() }

func (b Booking) SameIssue(o Booking) bool { return b.ID == o.ID }

// Work converts the booking into a timesheet entry.
func (b Booking) Work() model.Work {
	return model.Work{
		Start:       b.Start,
		End:         b.End,
		Issue:       model.Issue{ID: b.ID},
		Description: b.Description,
	}
}

func compareBookings(a, b Booking) int {
	if c := a.Start.Compare(b.Start); c != 0 {
		return c
	}
	return a.End.Compare(b.End)
}

func sortBookings(bs []Booking) {
	slices.SortStableFunc(bs, compareBookings)
}

// FilledRange is one on-duty span together with its bookings.
type FilledRange struct {
	Span timecalc.Range
	Work []Booking
}

func bookingRanges(bs []Booking) []timecalc.Range {
	out := make([]timecalc.Range, len(bs))
	for i, b := range bs {
		out[i] = b.Range()
	}
	return out
}

func spanRanges(frs []FilledRange) []timecalc.Range {
	out := make([]timecalc.Range, len(frs))
	for i, fr := range frs {
		out[i] = fr.Span
	}
	return out
}
