package normalize

import (
	"errors"
	"strings"

	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

var (
	// ErrUnmatchedBoundary reports a DayEnd without a DayStart or a
	// DayStart that is never closed.
	ErrUnmatchedBoundary = errors.New("unmatched day boundary")
	// ErrUnbookedGap reports on-duty time with no issue to book it on.
	ErrUnbookedGap = errors.New("unbooked time")
	// ErrOverflow reports a shift that leaves [00:00, 24:00].
	ErrOverflow = errors.New("time overflow")
	// ErrRoundingInfeasible reports a residual rounding error above one
	// resolution unit.
	ErrRoundingInfeasible = errors.New("rounding infeasible")
	ErrInvalidResolution  = errors.New("resolution must be positive")
)

// GapError lists every unbooked range found while filling one gap.
type GapError struct {
	Ranges []timecalc.Range
}

func (e *GapError) Error() string {
	parts := make([]string, len(e.Ranges))
	for i, r := range e.Ranges {
		parts[i] = r.String()
	}
	return ErrUnbookedGap.Error() + ": " + strings.Join(parts, ", ")
}

func (e *GapError) Is(target error) bool { return target == ErrUnbookedGap }
