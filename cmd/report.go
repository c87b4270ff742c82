package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/normalize"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

var sixty = decimal.NewFromInt(60)

// hours converts minutes to decimal hours with two places.
func hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}

type issueTotal struct {
	Issue   string          `json:"issue"`
	Minutes int             `json:"minutes"`
	Hours   decimal.Decimal `json:"hours"`
}

type report struct {
	Week         string          `json:"week"`
	Issues       []issueTotal    `json:"issues"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

// buildReport sums the booked minutes per issue.
func buildReport(label string, days []*normalize.NormalizedDay) report {
	totals := map[string]int{}
	var grandTotal int
	for _, d := range days {
		for _, e := range d.Entries {
			m := e.End.Sub(e.Start).Minutes()
			totals[e.Issue.ID] += m
			grandTotal += m
		}
	}

	r := report{Week: label, Issues: []issueTotal{}, TotalMinutes: grandTotal, TotalHours: hours(grandTotal)}
	for issue, m := range totals {
		r.Issues = append(r.Issues, issueTotal{Issue: issue, Minutes: m, Hours: hours(m)})
	}
	sort.Slice(r.Issues, func(i, j int) bool { return r.Issues[i].Issue < r.Issues[j].Issue })
	return r
}

func newReportCmd(a *app) *cobra.Command {
	var (
		flags  normalizeFlags
		week   bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show booked time per issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			from, to := day, day
			label := day.String()
			if week {
				from, to = weekOf(day)
				label = timecalc.ISOWeekLabel(day.Time())
			}

			days, err := a.normalizeDays(flags, from, to)
			if err != nil {
				return err
			}
			r := buildReport(label, days)

			out := cmd.OutOrStdout()
			switch format {
			case "csv":
				fmt.Fprintln(out, "issue,minutes,hours")
				for _, t := range r.Issues {
					fmt.Fprintf(out, "%s,%d,%s\n", t.Issue, t.Minutes, t.Hours.StringFixed(2))
				}
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			default: // md
				fmt.Fprintf(out, "Report %s\n", r.Week)
				fmt.Fprintln(out, "--------------------------------")
				for _, t := range r.Issues {
					fmt.Fprintf(out, "%-20s%8s h\n", t.Issue, t.Hours.StringFixed(2))
				}
				fmt.Fprintln(out, "--------------------------------")
				fmt.Fprintf(out, "%-20s%8s h\n", "Total", r.TotalHours.StringFixed(2))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&week, "week", false, "Report the whole week of the selected day")
	cmd.Flags().StringVar(&format, "format", "md", "Output format: md, csv, json")
	return cmd
}
