package msgraph

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base   string
	DryRun bool
	// Issue receives the imported bookings.
	Issue model.Issue
	// Location interprets event times; nil means local time.
	Location *time.Location
}

// parseGraphTime parses a Graph API dateTime string in loc.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	// Try RFC3339 first (includes timezone offset).
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t.In(loc), nil
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildDescription uses the subject, falling back to the first line of the
// body preview, and names the meeting location when there is one.
func buildDescription(event CalendarEvent) string {
	desc := strings.TrimSpace(event.Subject)
	if desc == "" {
		desc, _, _ = strings.Cut(strings.TrimSpace(event.BodyPreview), "\n")
	}
	if loc := strings.TrimSpace(event.Location.DisplayName); loc != "" {
		desc += " @ " + loc
	}
	return desc
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToWork converts a Graph CalendarEvent into a booking on issue.
// Events ending after midnight of their start day are rejected.
func MapEventToWork(event CalendarEvent, loc *time.Location, issue model.Issue) (model.Day, model.Work, error) {
	if loc == nil {
		loc = time.Local
	}
	startTime, err := parseGraphTime(event.Start.DateTime, loc)
	if err != nil {
		return model.Day{}, model.Work{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, loc)
	if err != nil {
		return model.Day{}, model.Work{}, fmt.Errorf("parsing end time: %w", err)
	}
	if !endTime.After(startTime) {
		return model.Day{}, model.Work{}, fmt.Errorf("event ends at %s before it starts", endTime.Format(time.RFC3339))
	}

	midnight := timecalc.StartOfDay(startTime)
	endMinutes := int(endTime.Sub(midnight) / time.Minute)
	if endMinutes > 24*60 {
		return model.Day{}, model.Work{}, fmt.Errorf("event spans more than one day")
	}

	return model.DayOf(startTime), model.Work{
		Start:       timecalc.Clock(startTime),
		End:         timecalc.FromMinutes(endMinutes),
		Issue:       issue,
		Description: buildDescription(event),
		ExternalID:  event.ID,
	}, nil
}

// SyncEvents maps events to bookings and upserts them into the day store.
// Per-event failures are logged and counted, not returned.
func SyncEvents(events []CalendarEvent, opts SyncOptions, log *zap.Logger) storage.ImportResult {
	var result storage.ImportResult
	im := storage.NewImporter(opts.Base, opts.DryRun)

	for _, event := range events {
		if shouldSkip(event) {
			log.Debug("skipping event", zap.String("subject", event.Subject), zap.String("show_as", event.ShowAs))
			continue
		}

		day, work, err := MapEventToWork(event, opts.Location, opts.Issue)
		if err != nil {
			log.Error("mapping event failed", zap.String("subject", event.Subject), zap.Error(err))
			result.Errors++
			continue
		}

		outcome, err := im.Merge(day, work)
		if err != nil {
			log.Error("saving event failed", zap.String("subject", event.Subject), zap.Error(err))
			result.Errors++
			continue
		}
		log.Info("event synced",
			zap.String("day", day.String()),
			zap.Stringer("work", work),
			zap.Stringer("outcome", outcome))
		result.Add(outcome)
	}

	return result
}
