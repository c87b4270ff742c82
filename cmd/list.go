package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

func newListCmd(a *app) *cobra.Command {
	var week bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded days with their booked work time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			from, to := day, day
			if week {
				from, to = weekOf(day)
			}

			n, err := a.normalizer(normalizeFlags{})
			if err != nil {
				return err
			}
			days, err := storage.ListDays(a.base, from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(days) == 0 {
				fmt.Fprintln(out, "No days recorded.")
				return nil
			}
			for _, d := range days {
				summary := ""
				if nd, err := n.Normalize(d); err != nil {
					summary = "not bookable: " + err.Error()
				} else {
					summary = "work " + timecalc.FormatMinutes(nd.FinalBreaks.WorkTime.Minutes())
				}
				fmt.Fprintf(out, "%s  %-10s%3d actions  %s\n", d.Day, d.MainLocation, len(d.Actions()), summary)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&week, "week", false, "List the whole week of the selected day")
	return cmd
}

// weekOf returns Monday and Sunday of the ISO week containing day.
func weekOf(day model.Day) (model.Day, model.Day) {
	monday, sunday := timecalc.WeekRange(day.Time())
	return model.DayOf(monday), model.DayOf(sunday)
}
