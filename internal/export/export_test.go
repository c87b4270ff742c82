package export_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AndiHofi/quarble-sub000/internal/export"
	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/normalize"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

func sampleDay() *normalize.NormalizedDay {
	return &normalize.NormalizedDay{
		Date: model.NewDay(2022, time.January, 6),
		Entries: []model.Work{
			{Start: timecalc.HM(8, 0), End: timecalc.HM(8, 45), Issue: model.Issue{ID: "M-1"}, Description: "org"},
			{Start: timecalc.HM(8, 45), End: timecalc.HM(11, 15), Issue: model.Issue{ID: "A-1"}, Description: `review "parser", part 2`},
		},
		OrigBreaks:  normalize.BreaksInfo{WorkTime: timecalc.Minutes(190), Breaks: []timecalc.Range{}},
		FinalBreaks: normalize.BreaksInfo{WorkTime: timecalc.Minutes(195), Breaks: []timecalc.Range{}},
	}
}

func TestTimeCockpit(t *testing.T) {
	want := "2022-01-06|08:00|08:45|M-1|org\n" +
		"2022-01-06|08:45|11:15|A-1|review \"parser\", part 2\n"
	assert.Equal(t, want, export.TimeCockpit(sampleDay()))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, []*normalize.NormalizedDay{sampleDay()}))
	want := "date,start,end,issue,description,minutes\n" +
		"2022-01-06,08:00,08:45,M-1,org,45\n" +
		"2022-01-06,08:45,11:15,A-1,\"review \"\"parser\"\", part 2\",150\n"
	assert.Equal(t, want, buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.JSON(&buf, []*normalize.NormalizedDay{sampleDay()}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2022-01-06", got[0]["date"])
	assert.Len(t, got[0]["entries"], 2)

	buf.Reset()
	require.NoError(t, export.JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.XLSX(&buf, []*normalize.NormalizedDay{sampleDay()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Start", "End", "Issue", "Description", "Minutes"}, rows[0])
	assert.Equal(t, []string{"2022-01-06", "08:00", "08:45", "M-1", "org", "45"}, rows[1])
	assert.Equal(t, "work 3h 15m, break 0m", rows[3][4])
}

func TestICS(t *testing.T) {
	var buf bytes.Buffer
	day := sampleDay()
	require.NoError(t, export.ICS(&buf, []*normalize.NormalizedDay{day}, time.UTC))

	cal, err := ics.ParseCalendar(&buf)
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	assert.Equal(t, export.EntryUID(day.Date, day.Entries[0]), events[0].Id())
	start, err := events[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, time.Date(2022, time.January, 6, 8, 0, 0, 0, time.UTC).Equal(start), start)
	assert.Equal(t, "M-1: org", events[0].GetProperty(ics.ComponentPropertySummary).Value)
}

func TestEntryUIDIsStable(t *testing.T) {
	day := sampleDay()
	assert.Equal(t, export.EntryUID(day.Date, day.Entries[0]), export.EntryUID(day.Date, day.Entries[0]))
	assert.NotEqual(t, export.EntryUID(day.Date, day.Entries[0]), export.EntryUID(day.Date, day.Entries[1]))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := export.Write(&bytes.Buffer{}, "pdf", nil, time.UTC)
	assert.ErrorContains(t, err, "unknown export format")
}
