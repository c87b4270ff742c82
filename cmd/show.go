package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the recorded actions of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.day()
			if err != nil {
				return err
			}
			d, err := storage.GetDay(a.base, day)
			if err != nil {
				return err
			}

			// Past and future days are looked at as a whole.
			now := timecalc.EndOfDay
			if day == model.DayOf(a.now()) {
				now = timecalc.Clock(a.now())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", d.Day, d.MainLocation)
			if d.ActiveIssue != nil {
				fmt.Fprintf(out, "Carried over: %s %s\n", d.ActiveIssue.ID, d.ActiveIssue.DefaultAction)
			}

			actions := d.Actions()
			if len(actions) == 0 {
				fmt.Fprintln(out, "No actions recorded.")
				return nil
			}
			for i, action := range actions {
				fmt.Fprintf(out, "%3d  %s\n", i, action)
			}

			if issue := d.CurrentIssue(now); issue != nil {
				fmt.Fprintf(out, "Current issue: %s %s\n", issue.ID, issue.DefaultAction)
			} else {
				fmt.Fprintln(out, "Current issue: none")
			}
			if last, ok := d.LastActionEnd(now); ok {
				fmt.Fprintf(out, "Last action ends: %s\n", last)
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm INDEX",
		Short: "Remove the action with the index printed by show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			var removed model.Action
			err = a.updateDay(func(d *model.ActiveDay) error {
				action, ok := d.ActionSet().At(index)
				if !ok {
					return fmt.Errorf("no action with index %d", index)
				}
				d.RemoveAction(action)
				removed = action
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed)
			return nil
		},
	}
}
