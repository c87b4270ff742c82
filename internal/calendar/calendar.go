// Package calendar imports calendar events from iCalendar files as
// bookings.
package calendar

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// Booking is an event converted to a Work action of Day.
type Booking struct {
	Day  model.Day
	Work model.Work
}

// ParseICS converts the timed events of an iCalendar stream to bookings on
// issue. Cancelled, transparent, all-day and multi-day events are skipped.
// Times are interpreted in loc.
func ParseICS(r io.Reader, issue model.Issue, loc *time.Location) ([]Booking, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var out []Booking
	for _, evt := range cal.Events() {
		if b, ok := parseVEvent(evt, issue, loc); ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Day.Time().Equal(out[j].Day.Time()) {
			return out[i].Day.Before(out[j].Day)
		}
		return model.Compare(out[i].Work, out[j].Work) < 0
	})
	return out, nil
}

func parseVEvent(evt *ics.VEvent, issue model.Issue, loc *time.Location) (Booking, bool) {
	if strings.EqualFold(propValue(evt, ics.ComponentPropertyStatus), "CANCELLED") ||
		strings.EqualFold(propValue(evt, ics.ComponentPropertyTransp), "TRANSPARENT") {
		return Booking{}, false
	}
	start, allDay, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil || allDay {
		return Booking{}, false
	}
	end, _, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil || !end.After(start) {
		return Booking{}, false
	}

	day := model.DayOf(start)
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	endMinutes := int(end.Sub(midnight) / time.Minute)
	if endMinutes > 24*60 {
		return Booking{}, false
	}

	return Booking{
		Day: day,
		Work: model.Work{
			Start:       timecalc.Clock(start),
			End:         timecalc.FromMinutes(endMinutes),
			Issue:       issue,
			Description: strings.TrimSpace(propValue(evt, ics.ComponentPropertySummary)),
			ExternalID:  evt.Id(),
		},
	}, true
}

func propValue(evt *ics.VEvent, name ics.ComponentProperty) string {
	if p := evt.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// parseICSDateTime reads a DTSTART/DTEND property in loc, honouring a TZID
// parameter and UTC values. allDay is set for date-only values.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (t time.Time, allDay bool, err error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), false, nil
	}
	if t, err := time.Parse("20060102T150405", val); err == nil {
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), false, nil
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), false, nil
	}
	if t, err := time.ParseInLocation("20060102", val, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %s value %q", propName, val)
}

// Import upserts bookings into the day store. With dryRun nothing is
// written; the result reports what would have happened.
func Import(base string, bookings []Booking, dryRun bool, log *zap.Logger) storage.ImportResult {
	var result storage.ImportResult
	im := storage.NewImporter(base, dryRun)
	for _, b := range bookings {
		outcome, err := im.Merge(b.Day, b.Work)
		if err != nil {
			log.Error("importing event failed",
				zap.String("day", b.Day.String()),
				zap.String("uid", b.Work.ExternalID),
				zap.Error(err))
			result.Errors++
			continue
		}
		log.Debug("event processed",
			zap.String("day", b.Day.String()),
			zap.Stringer("work", b.Work),
			zap.Stringer("outcome", outcome))
		result.Add(outcome)
	}
	return result
}
