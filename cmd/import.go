package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/calendar"
	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import bookings from other sources",
	}

	var (
		issueFlag string
		dryRun    bool
		timezone  string
	)
	icsCmd := &cobra.Command{
		Use:   "ics FILE",
		Short: "Import the timed events of an iCalendar file as bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if issueFlag == "" {
				issueFlag = a.cfg.Outlook.DefaultIssue
			}
			issue, err := model.ParseIssue(issueFlag)
			if err != nil {
				return err
			}
			loc, err := loadLocation(timezone)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			bookings, err := calendar.ParseICS(f, issue, loc)
			if err != nil {
				return err
			}
			result := calendar.Import(a.base, bookings, dryRun, a.log)
			return printImportResult(cmd, result, dryRun)
		},
	}
	icsCmd.Flags().StringVar(&issueFlag, "issue", "", "Issue to book the events on (default: outlook.default_issue)")
	icsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print planned operations without writing")
	icsCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for event times (default: local)")

	importCmd.AddCommand(icsCmd)
	return importCmd
}

func printImportResult(cmd *cobra.Command, result storage.ImportResult, dryRun bool) error {
	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, "Summary [dry-run]:")
	} else {
		fmt.Fprintln(out, "Summary:")
	}
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return fmt.Errorf("%d event(s) could not be imported", result.Errors)
	}
	return nil
}
