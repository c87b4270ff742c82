package normalize

// combineBookings folds every booking into the first booking of the same
// issue, extending it by the folded duration, then restores contiguity.
func combineBookings(work []Booking) ([]Booking, error) {
	combined := make([]Booking, 0, len(work))
	for _, w := range work {
		merged := false
		for i := range combined {
			if combined[i].SameIssue(w) {
				combined[i].End = combined[i].End.AddSat(w.Duration())
				merged = true
				break
			}
		}
		if !merged {
			combined = append(combined, w)
		}
	}
	sortBookings(combined)
	if err := compact(combined); err != nil {
		return nil, err
	}
	return combined, nil
}
