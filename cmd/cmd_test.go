package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndiHofi/quarble-sub000/internal/storage"
)

const testDate = "2022-01-06"

func newHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(storage.HomeEnv, home)
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

// recordDay records a short day: A-1 from 08:00, a meeting 09:00-10:00,
// day end at 12:00.
func recordDay(t *testing.T) {
	t.Helper()
	out := mustRun(t, "--date", testDate, "day", "start", "8", "--location", "h")
	assert.Contains(t, out, "2022-01-06: recorded 08:00 day start (home)")
	mustRun(t, "--date", testDate, "issue", "start", "A-1", "doFirst", "--at", "8")
	mustRun(t, "--date", testDate, "book", "9", "10", "m-1", "org", "meeting")
	mustRun(t, "--date", testDate, "day", "end", "1200")
}

func TestWorkflowEndToEnd(t *testing.T) {
	home := newHome(t)
	recordDay(t)
	assert.FileExists(t, filepath.Join(home, "config.json"))
	assert.FileExists(t, filepath.Join(home, "2022", "01", "06.json"))

	out := mustRun(t, "--date", testDate, "normalize")
	assert.Contains(t, out, "08:00-11:00  A-1")
	assert.Contains(t, out, "11:00-12:00  M-1")
	assert.Contains(t, out, "Booked:   work 4h 0m, break 0m")

	out = mustRun(t, "--date", testDate, "export", "--format", "tc")
	assert.Equal(t, "2022-01-06|08:00|11:00|A-1|doFirst\n2022-01-06|11:00|12:00|M-1|org meeting\n", out)

	out = mustRun(t, "--date", testDate, "export", "--format", "tc", "--no-combine")
	assert.Equal(t, "2022-01-06|08:00|09:00|A-1|doFirst\n"+
		"2022-01-06|09:00|10:00|M-1|org meeting\n"+
		"2022-01-06|10:00|12:00|A-1|doFirst\n", out)

	out = mustRun(t, "--date", testDate, "report")
	assert.Contains(t, out, "A-1                     3.00 h")
	assert.Contains(t, out, "Total                   4.00 h")

	out = mustRun(t, "--date", testDate, "list")
	assert.Contains(t, out, "2022-01-06  home        4 actions  work 4h 0m")
}

func TestShowAndRemove(t *testing.T) {
	newHome(t)
	recordDay(t)

	out := mustRun(t, "--date", testDate, "show")
	assert.Contains(t, out, "2022-01-06 (home)")
	assert.Contains(t, out, "  0  08:00 start A-1 doFirst")
	assert.Contains(t, out, "  1  08:00 day start (home)")
	assert.Contains(t, out, "  3  12:00 day end")
	assert.Contains(t, out, "Current issue: A-1 doFirst")
	assert.Contains(t, out, "Last action ends: 12:00")

	out = mustRun(t, "--date", testDate, "rm", "3")
	assert.Contains(t, out, "Removed 12:00 day end")
	out = mustRun(t, "--date", testDate, "show")
	assert.NotContains(t, out, "day end")

	_, err := run(t, "--date", testDate, "rm", "9")
	assert.ErrorContains(t, err, "no action with index 9")

	// The open span can no longer be normalized.
	_, err = run(t, "--date", testDate, "export")
	assert.ErrorContains(t, err, "never ends")
}

func TestActiveIssueCarriesToNextDay(t *testing.T) {
	newHome(t)
	recordDay(t)

	out := mustRun(t, "--date", "2022-01-07", "show")
	assert.Contains(t, out, "2022-01-07 (home)")
	assert.Contains(t, out, "Carried over: A-1 doFirst")
	assert.Contains(t, out, "No actions recorded.")

	mustRun(t, "--date", "2022-01-07", "day", "start", "9")
	mustRun(t, "--date", "2022-01-07", "day", "end", "10")
	out = mustRun(t, "--date", "2022-01-07", "export")
	assert.Equal(t, "2022-01-07|09:00|10:00|A-1|doFirst\n", out)
}

func TestRecordingErrors(t *testing.T) {
	newHome(t)
	recordDay(t)

	_, err := run(t, "--date", testDate, "book", "9", "10", "B-2", "again")
	assert.ErrorIs(t, err, errDuplicate)

	_, err = run(t, "--date", testDate, "book", "10", "9", "B-2", "backwards")
	assert.ErrorContains(t, err, "is empty")

	_, err = run(t, "--date", testDate, "event", "not-an-issue", "x", "--at", "9")
	assert.Error(t, err)

	_, err = run(t, "--date", "06.01.2022", "show")
	assert.ErrorContains(t, err, "invalid date")
}

func TestAbsenceAndMarkers(t *testing.T) {
	newHome(t)
	mustRun(t, "--date", testDate, "absence", "za", "8", "12")
	mustRun(t, "--date", testDate, "absence", "doctor", "13", "14")
	mustRun(t, "--date", testDate, "day", "vacation")
	mustRun(t, "--date", testDate, "current", "B-2", "reading", "--at", "15")

	out := mustRun(t, "--date", testDate, "show")
	assert.Contains(t, out, "  0  vacation")
	assert.Contains(t, out, "08:00-12:00 ZA")
	assert.Contains(t, out, "13:00-14:00 doctor")
	assert.Contains(t, out, "15:00- B-2 reading")

	_, err := run(t, "--date", testDate, "absence", "holiday", "8", "9")
	assert.ErrorContains(t, err, "unknown absence")
}

func TestExportFormats(t *testing.T) {
	home := newHome(t)
	recordDay(t)

	outPath := filepath.Join(home, "out.json")
	mustRun(t, "--date", testDate, "export", "--format", "json", "--out", outPath)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var days []map[string]any
	require.NoError(t, json.Unmarshal(data, &days))
	require.Len(t, days, 1)
	assert.Equal(t, testDate, days[0]["date"])

	out := mustRun(t, "export", "--format", "csv", "--from", "2022-01-03", "--to", "2022-01-09")
	assert.Contains(t, out, "2022-01-06,11:00,12:00,M-1,org meeting,60")

	_, err = run(t, "export", "--to", "2022-01-09")
	assert.ErrorContains(t, err, "--from is required")

	_, err = run(t, "--date", testDate, "export", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown export format")
}

func TestExportToClipboard(t *testing.T) {
	newHome(t)
	recordDay(t)

	var copied string
	orig := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	out := mustRun(t, "--date", testDate, "export", "--clip")
	assert.Contains(t, out, "Copied 1 day(s) to the clipboard.")
	assert.Equal(t, "2022-01-06|08:00|11:00|A-1|doFirst\n2022-01-06|11:00|12:00|M-1|org meeting\n", copied)
}

func TestReportWeekJSON(t *testing.T) {
	newHome(t)
	recordDay(t)

	out := mustRun(t, "--date", testDate, "report", "--week", "--format", "json")
	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "2022-W01", r.Week)
	assert.Equal(t, 240, r.TotalMinutes)
	require.Len(t, r.Issues, 2)
	assert.Equal(t, "A-1", r.Issues[0].Issue)
	assert.Equal(t, "3", r.Issues[0].Hours.String())
}

func TestImportICS(t *testing.T) {
	home := newHome(t)
	path := filepath.Join(home, "meetings.ics")
	ics := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
		"BEGIN:VEVENT\r\nUID:standup@example.com\r\nDTSTAMP:20220101T000000Z\r\n" +
		"DTSTART:20220106T083000Z\r\nDTEND:20220106T084500Z\r\nSUMMARY:Standup\r\nEND:VEVENT\r\n" +
		"END:VCALENDAR\r\n"
	require.NoError(t, os.WriteFile(path, []byte(ics), 0o600))

	out := mustRun(t, "import", "ics", path, "--timezone", "UTC", "--dry-run")
	assert.Contains(t, out, "Summary [dry-run]:")
	assert.Contains(t, out, "1 imported")

	out = mustRun(t, "import", "ics", path, "--timezone", "UTC")
	assert.Contains(t, out, "1 imported")
	out = mustRun(t, "import", "ics", path, "--timezone", "UTC")
	assert.Contains(t, out, "1 skipped")

	out = mustRun(t, "--date", testDate, "show")
	assert.Contains(t, out, "08:30-08:45 MEET-1 Standup")
}
