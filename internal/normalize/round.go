package normalize

import (
	"fmt"

	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// roundBookings rounds every booking of fr to a positive multiple of res
// minutes, keeps the summed error within one unit and lays the bookings out
// contiguously from the rounded start of the span.
func roundBookings(fr *FilledRange, res int) error {
	if res <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}
	work := fr.Work
	if len(work) == 0 {
		return nil
	}

	roundedStart := work[0].Start.Round(timecalc.RoundNormal, res)
	var totalOriginal, totalRounded int
	for i := range work {
		duration := work[i].Duration()
		rounded := duration.Round(timecalc.RoundNormal, res)
		if rounded == timecalc.Zero {
			rounded = timecalc.Minutes(res)
		}
		totalOriginal += duration.Minutes()
		totalRounded += rounded.Minutes()

		end, ok := work[i].Start.TryAdd(rounded)
		if !ok {
			return fmt.Errorf("%w: %s + %s", ErrOverflow, work[i].Start, rounded)
		}
		work[i].End = end
	}

	roundError := totalRounded - totalOriginal
	for i := len(work) - 1; i >= 0 && abs(roundError) >= res; i-- {
		for abs(roundError) >= res && work[i].Duration().Minutes() > res {
			correction := -res * sign(roundError)
			roundError += correction
			work[i].End = work[i].End.AddSat(timecalc.Minutes(correction))
		}
	}
	if abs(roundError) > res {
		return fmt.Errorf("%w: remaining error is %d minutes", ErrRoundingInfeasible, roundError)
	}

	if err := compact(work); err != nil {
		return err
	}
	if err := shiftTo(work, roundedStart); err != nil {
		return err
	}
	fr.Span = timecalc.NewRange(roundedStart, work[len(work)-1].End)
	return nil
}

// compact keeps the first booking and chains every following booking to
// the end of its predecessor, preserving durations.
func compact(work []Booking) error {
	for i := 1; i < len(work); i++ {
		duration := work[i].Duration()
		work[i].Start = work[i-1].End
		end, ok := work[i].Start.TryAdd(duration)
		if !ok {
			return fmt.Errorf("%w: %s + %s", ErrOverflow, work[i].Start, duration)
		}
		work[i].End = end
	}
	return nil
}

// shiftTo moves all bookings so that the first one starts at start.
func shiftTo(work []Booking, start timecalc.Time) error {
	if len(work) == 0 {
		return nil
	}
	offset := start.Sub(work[0].Start)
	for i := range work {
		s, ok1 := work[i].Start.TryAdd(offset)
		e, ok2 := work[i].End.TryAdd(offset)
		if !ok1 || !ok2 {
			return fmt.Errorf("%w: shifting %s by %s", ErrOverflow, work[i].Range(), offset)
		}
		work[i].Start, work[i].End = s, e
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
