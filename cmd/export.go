package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/export"
	"github.com/AndiHofi/quarble-sub000/internal/model"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

func newExportCmd(a *app) *cobra.Command {
	var (
		flags    normalizeFlags
		format   string
		fromFlag string
		toFlag   string
		outPath  string
		clip     bool
		timezone string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the normalized timesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := a.dayRange(fromFlag, toFlag)
			if err != nil {
				return err
			}
			loc, err := loadLocation(timezone)
			if err != nil {
				return err
			}
			days, err := a.normalizeDays(flags, from, to)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, format, days, loc); err != nil {
				return err
			}

			if clip {
				if format == export.FormatXLSX {
					return fmt.Errorf("cannot copy %s output to the clipboard", format)
				}
				if err := clipboardWrite(buf.String()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Copied %d day(s) to the clipboard.\n", len(days))
				return nil
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, buf.Bytes(), 0o600); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d day(s) to %s\n", len(days), outPath)
				return nil
			}
			_, err = io.Copy(cmd.OutOrStdout(), &buf)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", export.FormatTimeCockpit, "Output format: "+strings.Join(export.Formats, ", "))
	cmd.Flags().StringVar(&fromFlag, "from", "", "First day (YYYY-MM-DD); defaults to --date")
	cmd.Flags().StringVar(&toFlag, "to", "", "Last day (YYYY-MM-DD); defaults to --from")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to FILE instead of stdout")
	cmd.Flags().BoolVar(&clip, "clip", false, "Copy the output to the clipboard")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for ics output (default: local)")
	return cmd
}

// dayRange resolves --from/--to, falling back to the selected day.
func (a *app) dayRange(fromFlag, toFlag string) (model.Day, model.Day, error) {
	if toFlag != "" && fromFlag == "" {
		return model.Day{}, model.Day{}, fmt.Errorf("--from is required when --to is specified")
	}
	from, err := a.day()
	if err != nil {
		return model.Day{}, model.Day{}, err
	}
	if fromFlag != "" {
		if from, err = model.ParseDay(fromFlag); err != nil {
			return model.Day{}, model.Day{}, err
		}
	}
	to := from
	if toFlag != "" {
		if to, err = model.ParseDay(toFlag); err != nil {
			return model.Day{}, model.Day{}, err
		}
	}
	if to.Before(from) {
		return model.Day{}, model.Day{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return from, to, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
