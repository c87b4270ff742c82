package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/normalize"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// normalizeFlags override the configured normalization settings.
type normalizeFlags struct {
	resolution int
	noCombine  bool
	noBreak    bool
}

func (f *normalizeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.resolution, "resolution", 0, "Booking resolution in minutes (default: configured)")
	cmd.Flags().BoolVar(&f.noCombine, "no-combine", false, "Keep bookings of the same issue separate")
	cmd.Flags().BoolVar(&f.noBreak, "no-break", false, "Do not insert the default break")
}

func (a *app) normalizer(f normalizeFlags) (normalize.Normalizer, error) {
	n, err := a.cfg.Normalizer()
	if err != nil {
		return n, err
	}
	if f.resolution != 0 {
		n.Resolution = f.resolution
	}
	if f.noCombine {
		n.CombineBookings = false
	}
	if f.noBreak {
		n.AddBreak = false
	}
	return n, nil
}

// normalizeDays normalizes every stored day in [from, to]. Any failure
// aborts the whole run.
func (a *app) normalizeDays(f normalizeFlags, from, to model.Day) ([]*normalize.NormalizedDay, error) {
	n, err := a.normalizer(f)
	if err != nil {
		return nil, err
	}
	days, err := storage.ListDays(a.base, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]*normalize.NormalizedDay, 0, len(days))
	for _, d := range days {
		nd, err := n.Normalize(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Day, err)
		}
		out = append(out, nd)
	}
	return out, nil
}

func newNormalizeCmd(a *app) *cobra.Command {
	var flags normalizeFlags
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Show the timesheet computed from the day's actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			days, err := a.normalizeDays(flags, day, day)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: nothing recorded.\n", day)
				return nil
			}
			printNormalized(cmd.OutOrStdout(), days[0])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printNormalized(w io.Writer, d *normalize.NormalizedDay) {
	fmt.Fprintln(w, d.Date)
	for _, e := range d.Entries {
		fmt.Fprintf(w, "%s-%s  %-12s%s\n", e.Start, e.End, e.Issue.ID, e.Description)
	}
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "Recorded: %s\n", formatBreaks(d.OrigBreaks))
	fmt.Fprintf(w, "Booked:   %s\n", formatBreaks(d.FinalBreaks))
}

func formatBreaks(info normalize.BreaksInfo) string {
	s := fmt.Sprintf("work %s, break %s",
		timecalc.FormatMinutes(info.WorkTime.Minutes()),
		timecalc.FormatMinutes(info.BreakTime.Minutes()))
	if len(info.Breaks) == 0 {
		return s
	}
	parts := make([]string, len(info.Breaks))
	for i, b := range info.Breaks {
		parts[i] = b.String()
	}
	return s + " (" + strings.Join(parts, ", ") + ")"
}
