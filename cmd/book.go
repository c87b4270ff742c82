package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
)

func newBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book START END ISSUE DESCRIPTION...",
		Short: "Book an interval on an issue",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := a.parseRangeArgs(args[0], args[1])
			if err != nil {
				return err
			}
			issue, err := model.ParseIssue(args[2])
			if err != nil {
				return err
			}
			return a.record(cmd, model.Work{
				Start:       start,
				End:         end,
				Issue:       issue,
				Description: joinArgs(args[3:]),
			})
		},
	}
}

func newEventCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "event ISSUE DESCRIPTION...",
		Short: "Record something done on an issue at a point in time",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.parseTimeArg(at)
			if err != nil {
				return err
			}
			issue, err := model.ParseIssue(args[0])
			if err != nil {
				return err
			}
			return a.record(cmd, model.WorkEvent{At: t, Issue: issue, Description: joinArgs(args[1:])})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Time of the event (default: now)")
	return cmd
}

func newCurrentCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "current ISSUE DESCRIPTION...",
		Short: "Record what is being worked on right now",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.parseTimeArg(at)
			if err != nil {
				return err
			}
			issue, err := model.ParseIssue(args[0])
			if err != nil {
				return err
			}
			return a.record(cmd, model.CurrentWork{Start: t, Issue: issue, Description: joinArgs(args[1:])})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Start time (default: now)")
	return cmd
}

func newAbsenceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "absence za|doctor START END",
		Short:     "Record time off in lieu (za) or a doctor's appointment",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"za", "doctor"},
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := a.parseRangeArgs(args[1], args[2])
			if err != nil {
				return err
			}
			switch args[0] {
			case "za":
				return a.record(cmd, model.ZA{Start: start, End: end})
			case "doctor":
				return a.record(cmd, model.Doctor{Start: start, End: end})
			}
			return fmt.Errorf("unknown absence %q (want za or doctor)", args[0])
		},
	}
}
