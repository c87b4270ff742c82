package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AndiHofi/quarble-sub000/internal/config"
	"github.com/AndiHofi/quarble-sub000/internal/logging"
	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
)

// app is the state shared by all commands of one invocation. It is filled
// in by the root command's PersistentPreRunE.
type app struct {
	base string
	cfg  config.Config
	log  *zap.Logger
	now  func() time.Time

	dateFlag     string
	logLevelFlag string
}

// day returns the day selected with --date, or today.
func (a *app) day() (model.Day, error) {
	if a.dateFlag == "" {
		return model.DayOf(a.now()), nil
	}
	return model.ParseDay(a.dateFlag)
}

func (a *app) setup(cmd *cobra.Command) error {
	base, err := storage.BaseDir()
	if err != nil {
		return err
	}
	cfg, created, err := config.Load(base)
	if err != nil {
		return err
	}
	if a.logLevelFlag != "" {
		cfg.Log.Level = a.logLevelFlag
	}
	log, err := logging.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if created {
		log.Info("wrote default configuration", zap.String("path", config.FilePath(base)))
	}
	a.base, a.cfg, a.log = base, cfg, log
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now, log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "quarble",
		Short: "quarble – record your work day, book it as a clean timesheet",
		Long: `quarble records what happens during a work day (day start and end,
issue switches, meetings, absences) and normalizes it into a gapless,
rounded timesheet ready to be booked.
All data is stored as human-readable JSON files in ~/.quarble/ or $QUARBLE_HOME.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.dateFlag, "date", "", "Day to work on (YYYY-MM-DD); defaults to today")
	rootCmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDayCmd(a),
		newBookCmd(a),
		newEventCmd(a),
		newIssueCmd(a),
		newAbsenceCmd(a),
		newCurrentCmd(a),
		newShowCmd(a),
		newRemoveCmd(a),
		newListCmd(a),
		newNormalizeCmd(a),
		newExportCmd(a),
		newReportCmd(a),
		newImportCmd(a),
		newOutlookCmd(a),
	)
	return rootCmd
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
