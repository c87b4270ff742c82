package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
)

func newIssueCmd(a *app) *cobra.Command {
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Switch the issue that unbooked time is attributed to",
	}

	var startAt string
	startCmd := &cobra.Command{
		Use:   "start ISSUE [DEFAULT-ACTION...]",
		Short: "Make ISSUE the active issue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.parseTimeArg(startAt)
			if err != nil {
				return err
			}
			issue, err := model.ParseIssue(args[0])
			if err != nil {
				return err
			}
			return a.record(cmd, model.WorkStart{At: at, Issue: issue, Description: joinArgs(args[1:])})
		},
	}
	startCmd.Flags().StringVar(&startAt, "at", "", "Start time (default: now)")

	var endAt string
	endCmd := &cobra.Command{
		Use:   "end ISSUE",
		Short: "Stop attributing time to ISSUE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := a.parseTimeArg(endAt)
			if err != nil {
				return err
			}
			issue, err := model.ParseIssue(args[0])
			if err != nil {
				return err
			}
			return a.record(cmd, model.WorkEnd{At: at, Issue: issue})
		},
	}
	endCmd.Flags().StringVar(&endAt, "at", "", "End time (default: now)")

	issueCmd.AddCommand(startCmd, endCmd)
	return issueCmd
}
