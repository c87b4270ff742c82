package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/storage"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

var errDuplicate = errors.New("an equal action is already recorded")

// parseTimeArg reads a time typed on the command line: "now" (or empty),
// an offset from now such as "-15" or "+1h", or a clock time. The result
// is rounded with the configured mode and resolution.
func (a *app) parseTimeArg(s string) (timecalc.Time, error) {
	s = strings.TrimSpace(s)
	var t timecalc.Time
	switch {
	case s == "" || s == "now" || s == "n":
		t = timecalc.Clock(a.now())
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"):
		rel, err := timecalc.ParseRelative(s)
		if err != nil {
			return timecalc.Time{}, err
		}
		var ok bool
		if t, ok = timecalc.Clock(a.now()).TryAdd(rel); !ok {
			return timecalc.Time{}, fmt.Errorf("%w: now %s leaves the day", timecalc.ErrInvalidTime, rel)
		}
	default:
		var err error
		if t, err = timecalc.ParseTime(s); err != nil {
			return timecalc.Time{}, err
		}
	}
	return timecalc.WholeDay().Normalize(t, a.cfg.Round(), a.cfg.ResolutionMinutes)
}

// parseRangeArgs reads a START END pair.
func (a *app) parseRangeArgs(start, end string) (timecalc.Time, timecalc.Time, error) {
	from, err := a.parseTimeArg(start)
	if err != nil {
		return timecalc.Time{}, timecalc.Time{}, fmt.Errorf("start: %w", err)
	}
	to, err := a.parseTimeArg(end)
	if err != nil {
		return timecalc.Time{}, timecalc.Time{}, fmt.Errorf("end: %w", err)
	}
	if !from.Before(to) {
		return timecalc.Time{}, timecalc.Time{}, fmt.Errorf("%w: %s-%s is empty", timecalc.ErrInvalidTime, from, to)
	}
	return from, to, nil
}

// updateDay loads the selected day, applies fn and saves the result.
func (a *app) updateDay(fn func(d *model.ActiveDay) error) error {
	day, err := a.day()
	if err != nil {
		return err
	}
	d, err := storage.GetDay(a.base, day)
	if err != nil {
		return err
	}
	if err := fn(d); err != nil {
		return err
	}
	return storage.SaveDay(a.base, d)
}

// record adds action to the selected day.
func (a *app) record(cmd *cobra.Command, action model.Action) error {
	return a.recordWith(cmd, action, nil)
}

// recordWith adds action after applying prepare to the day.
func (a *app) recordWith(cmd *cobra.Command, action model.Action, prepare func(d *model.ActiveDay)) error {
	var day model.Day
	err := a.updateDay(func(d *model.ActiveDay) error {
		day = d.Day
		if prepare != nil {
			prepare(d)
		}
		if !d.AddAction(action) {
			return fmt.Errorf("%w: %s", errDuplicate, action)
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: recorded %s\n", day, action)
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
