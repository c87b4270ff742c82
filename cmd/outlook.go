package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/msgraph"
)

func newOutlookCmd(a *app) *cobra.Command {
	outlookCmd := &cobra.Command{
		Use:   "outlook",
		Short: "Outlook calendar integration",
	}

	var (
		fromFlag  string
		toFlag    string
		dryRun    bool
		issueFlag string
		timezone  string
	)
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync Outlook calendar events into bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := a.dayRange(fromFlag, toFlag)
			if err != nil {
				return err
			}
			if issueFlag == "" {
				issueFlag = a.cfg.Outlook.DefaultIssue
			}
			issue, err := model.ParseIssue(issueFlag)
			if err != nil {
				return err
			}
			if timezone == "" {
				timezone = a.cfg.Outlook.Timezone
			}
			loc, err := loadLocation(timezone)
			if err != nil {
				return err
			}

			dryTag := ""
			if dryRun {
				dryTag = " [dry-run]"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Syncing Outlook events (%s → %s)%s...\n", from, to, dryTag)

			ctx := cmd.Context()
			auth := msgraph.Auth{
				Base:     a.base,
				TenantID: a.cfg.Outlook.TenantID,
				ClientID: a.cfg.Outlook.ClientID,
				Prompt:   cmd.OutOrStdout(),
				Log:      a.log,
			}
			src, err := auth.TokenSource(ctx)
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			client := msgraph.NewClient(ctx, src)

			start := time.Date(from.Year(), from.Month(), from.Date(), 0, 0, 0, 0, loc)
			end := time.Date(to.Year(), to.Month(), to.Date(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
			events, err := client.GetCalendarView(ctx, start, end, timezone)
			if err != nil {
				return fmt.Errorf("failed to fetch calendar events: %w", err)
			}

			result := msgraph.SyncEvents(events, msgraph.SyncOptions{
				Base:     a.base,
				DryRun:   dryRun,
				Issue:    issue,
				Location: loc,
			}, a.log)
			return printImportResult(cmd, result, dryRun)
		},
	}
	syncCmd.Flags().StringVar(&fromFlag, "from", "", "First day (YYYY-MM-DD); defaults to --date")
	syncCmd.Flags().StringVar(&toFlag, "to", "", "Last day (YYYY-MM-DD); defaults to --from")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned operations without writing")
	syncCmd.Flags().StringVar(&issueFlag, "issue", "", "Issue to book the events on (default: outlook.default_issue)")
	syncCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for event times (default: outlook.timezone)")

	outlookCmd.AddCommand(syncCmd)
	return outlookCmd
}
