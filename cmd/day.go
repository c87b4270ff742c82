package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
)

func newDayCmd(a *app) *cobra.Command {
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Record the start and end of the work day, or a day without work",
	}

	var location string
	startCmd := &cobra.Command{
		Use:   "start [TIME]",
		Short: "Start an on-duty span (default: now)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.parseTimeArg(firstArg(args))
			if err != nil {
				return err
			}
			loc := model.Location("")
			if location != "" {
				loc = model.ParseLocation(location)
			}
			return a.recordWith(cmd, model.DayStart{At: at, Location: loc}, func(d *model.ActiveDay) {
				// The first location of the day becomes its main location.
				if loc != "" && len(d.Actions()) == 0 {
					d.MainLocation = loc
				}
			})
		},
	}
	startCmd.Flags().StringVar(&location, "location", "", "Work location: office (o), home (h) or any name")

	endCmd := &cobra.Command{
		Use:   "end [TIME]",
		Short: "End the open on-duty span (default: now)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.parseTimeArg(firstArg(args))
			if err != nil {
				return err
			}
			return a.record(cmd, model.DayEnd{At: at})
		},
	}

	marker := func(use, short string, action model.Action) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.record(cmd, action)
			},
		}
	}

	dayCmd.AddCommand(
		startCmd,
		endCmd,
		marker("off", "Mark the day as a day off", model.DayOff{}),
		marker("vacation", "Mark the day as vacation", model.Vacation{}),
		marker("sick", "Mark the day as sick leave", model.Sick{}),
	)
	return dayCmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
