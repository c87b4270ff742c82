package normalize

import (
	"fmt"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// daySpans pairs DayStart and DayEnd markers into on-duty ranges.
// A DayStart while a span is already open is ignored, which tolerates a
// forgotten DayEnd before a break.
func daySpans(actions []model.Action) ([]timecalc.Range, error) {
	var (
		spans []timecalc.Range
		start timecalc.Time
		open  bool
	)
	for _, a := range actions {
		switch v := a.(type) {
		case model.DayStart:
			if !open {
				start, open = v.At, true
			}
		case model.DayEnd:
			if !open {
				return nil, fmt.Errorf("%w: day end at %s without a start", ErrUnmatchedBoundary, v.At)
			}
			spans = append(spans, timecalc.NewRange(start, v.At))
			open = false
		}
	}
	if open {
		return nil, fmt.Errorf("%w: day started at %s never ends", ErrUnmatchedBoundary, start)
	}
	return spans, nil
}
