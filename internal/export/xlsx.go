package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AndiHofi/quarble-sub000/internal/normalize"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "Timesheet"

var xlsxHeader = []string{"Date", "Start", "End", "Issue", "Description", "Minutes"}

// XLSX writes a workbook with one row per entry and a summary row per day.
func XLSX(w io.Writer, days []*normalize.NormalizedDay) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	f.SetColWidth(SheetName, "A", "A", 12)
	f.SetColWidth(SheetName, "B", "C", 8)
	f.SetColWidth(SheetName, "D", "D", 14)
	f.SetColWidth(SheetName, "E", "E", 40)
	f.SetColWidth(SheetName, "F", "F", 10)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}})
	if err != nil {
		return fmt.Errorf("creating summary style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return err
	}
	f.SetCellStyle(SheetName, "A1", "F1", headerStyle)

	row := 2
	for _, d := range days {
		for _, e := range d.Entries {
			values := []any{d.Date.String(), e.Start.String(), e.End.String(), e.Issue.ID, e.Description, e.End.Sub(e.Start).Minutes()}
			if err := f.SetSheetRow(SheetName, cell("A", row), &values); err != nil {
				return err
			}
			row++
		}
		summary := []any{
			d.Date.String(), "", "", "",
			fmt.Sprintf("work %s, break %s",
				timecalc.FormatMinutes(d.FinalBreaks.WorkTime.Minutes()),
				timecalc.FormatMinutes(d.FinalBreaks.BreakTime.Minutes())),
			d.FinalBreaks.WorkTime.Minutes(),
		}
		if err := f.SetSheetRow(SheetName, cell("A", row), &summary); err != nil {
			return err
		}
		f.SetCellStyle(SheetName, cell("A", row), cell("F", row), summaryStyle)
		row++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
