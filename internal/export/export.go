// Package export renders normalized days for time booking systems and
// spreadsheets.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AndiHofi/quarble-sub000/internal/normalize"
)

// Format names accepted by Write.
const (
	FormatTimeCockpit = "tc"
	FormatCSV         = "csv"
	FormatJSON        = "json"
	FormatXLSX        = "xlsx"
	FormatICS         = "ics"
)

// Formats lists the supported formats in help order.
var Formats = []string{FormatTimeCockpit, FormatCSV, FormatJSON, FormatXLSX, FormatICS}

// Write renders days in format to w. loc places entries on the time line
// for the ICS format.
func Write(w io.Writer, format string, days []*normalize.NormalizedDay, loc *time.Location) error {
	switch format {
	case FormatTimeCockpit:
		for _, d := range days {
			if _, err := io.WriteString(w, TimeCockpit(d)); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		return CSV(w, days)
	case FormatJSON:
		return JSON(w, days)
	case FormatXLSX:
		return XLSX(w, days)
	case FormatICS:
		return ICS(w, days, loc)
	}
	return fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// TimeCockpit renders one pipe separated line per entry:
// YYYY-MM-DD|HH:MM|HH:MM|ISSUE-ID|description
func TimeCockpit(day *normalize.NormalizedDay) string {
	var b strings.Builder
	for _, e := range day.Entries {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s\n", day.Date, e.Start, e.End, e.Issue.ID, e.Description)
	}
	return b.String()
}

// CSV writes one row per entry.
func CSV(w io.Writer, days []*normalize.NormalizedDay) error {
	if _, err := fmt.Fprintln(w, "date,start,end,issue,description,minutes"); err != nil {
		return err
	}
	for _, d := range days {
		for _, e := range d.Entries {
			_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d\n",
				d.Date,
				e.Start,
				e.End,
				csvEscape(e.Issue.ID),
				csvEscape(e.Description),
				e.End.Sub(e.Start).Minutes(),
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON writes days as an indented array.
func JSON(w io.Writer, days []*normalize.NormalizedDay) error {
	if days == nil {
		days = []*normalize.NormalizedDay{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}
