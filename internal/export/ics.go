package export

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/normalize"
)

const productID = "-//quarble//timesheet//EN"

// uidNamespace scopes the name based event UIDs.
var uidNamespace = uuid.MustParse("3f1c7a52-9d0e-4b8e-a6d1-6a0c2f9b7e41")

// EntryUID is stable for the same day, start and issue so that re-exports
// update calendar entries instead of duplicating them.
func EntryUID(day model.Day, e model.Work) string {
	return uuid.NewSHA1(uidNamespace, []byte(day.String()+"|"+e.Start.String()+"|"+e.Issue.ID)).String()
}

// ICS writes one VEVENT per entry. Entries are placed in loc.
func ICS(w io.Writer, days []*normalize.NormalizedDay, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, d := range days {
		midnight := time.Date(d.Date.Year(), d.Date.Month(), d.Date.Date(), 0, 0, 0, 0, loc)
		for _, e := range d.Entries {
			start := e.Start.On(midnight)
			event := cal.AddEvent(EntryUID(d.Date, e))
			event.SetDtStampTime(start)
			event.SetStartAt(start)
			event.SetEndAt(e.End.On(midnight))
			event.SetSummary(e.Issue.ID + ": " + e.Description)
			event.SetDescription(e.Description)
		}
	}
	_, err := io.WriteString(w, cal.Serialize())
	return err
}
