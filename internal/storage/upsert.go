package storage

import (
	"fmt"

	"github.com/AndiHofi/quarble-sub000/internal/model"
)

// Outcome is what an upsert did with an imported booking.
type Outcome int

const (
	Skipped Outcome = iota
	Imported
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Imported:
		return "imported"
	case Updated:
		return "updated"
	}
	return "skipped"
}

// findByExternalID returns the Work action of d imported from id.
func findByExternalID(d *model.ActiveDay, id string) (model.Work, bool) {
	var (
		found model.Work
		ok    bool
	)
	d.ActionSet().Ascend(func(a model.Action) bool {
		if w, isWork := a.(model.Work); isWork && w.ExternalID == id {
			found, ok = w, true
			return false
		}
		return true
	})
	return found, ok
}

// MergeWork applies w to d in memory. Bookings without an external id are
// always added; imported ones replace their earlier import when changed.
// An equal booking already present is skipped.
func MergeWork(d *model.ActiveDay, w model.Work) Outcome {
	if w.ExternalID != "" {
		if existing, ok := findByExternalID(d, w.ExternalID); ok {
			if existing == w {
				return Skipped
			}
			d.RemoveAction(existing)
			if !d.AddAction(w) {
				// Another booking occupies the new slot; keep the old import.
				d.AddAction(existing)
				return Skipped
			}
			return Updated
		}
	}
	if !d.AddAction(w) {
		return Skipped
	}
	return Imported
}

// UpsertWork merges w into the stored day and saves it when it changed.
func UpsertWork(base string, day model.Day, w model.Work) (Outcome, error) {
	return NewImporter(base, false).Merge(day, w)
}

// Importer merges a batch of imported bookings. Each touched day is
// loaded once and kept in memory, so bookings of one batch see each other
// also in a dry run, where nothing is saved.
type Importer struct {
	base   string
	dryRun bool
	days   map[string]*model.ActiveDay
}

func NewImporter(base string, dryRun bool) *Importer {
	return &Importer{base: base, dryRun: dryRun, days: map[string]*model.ActiveDay{}}
}

// Merge applies w to its day and saves the day unless this is a dry run
// or nothing changed.
func (im *Importer) Merge(day model.Day, w model.Work) (Outcome, error) {
	key := day.String()
	d, ok := im.days[key]
	if !ok {
		var err error
		if d, err = GetDay(im.base, day); err != nil {
			return Skipped, err
		}
		im.days[key] = d
	}
	outcome := MergeWork(d, w)
	if outcome == Skipped || im.dryRun {
		return outcome, nil
	}
	if err := SaveDay(im.base, d); err != nil {
		// Reload on the next merge so memory matches the disk.
		delete(im.days, key)
		return Skipped, err
	}
	return outcome, nil
}

// ImportResult counts the outcomes of an import run.
type ImportResult struct {
	Imported int
	Updated  int
	Skipped  int
	Errors   int
}

// Add counts o.
func (r *ImportResult) Add(o Outcome) {
	switch o {
	case Imported:
		r.Imported++
	case Updated:
		r.Updated++
	default:
		r.Skipped++
	}
}

func (r ImportResult) String() string {
	return fmt.Sprintf("%d imported, %d updated, %d skipped, %d errors", r.Imported, r.Updated, r.Skipped, r.Errors)
}
