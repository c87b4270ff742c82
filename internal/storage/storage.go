package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndiHofi/quarble-sub000/internal/model"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// HomeEnv overrides the data directory.
const HomeEnv = "QUARBLE_HOME"

// carryOverDays is how far back GetDay looks for a day to carry state from.
const carryOverDays = 7

// ErrCorrupt is returned when a day file cannot be decoded.
var ErrCorrupt = errors.New("corrupt day file")

// BaseDir returns the root data directory: $QUARBLE_HOME or ~/.quarble.
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return expandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".quarble"), nil
}

func expandHome(dir string) (string, error) {
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
}

// dayFilePath returns the path for the given day's JSON file.
func dayFilePath(base string, day model.Day) string {
	t := day.Time()
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the stored day. ok is false when nothing was stored yet.
func LoadDay(base string, day model.Day) (d *model.ActiveDay, ok bool, err error) {
	path := dayFilePath(base, day)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var loaded model.ActiveDay
	if err := json.Unmarshal(data, &loaded); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, false, fmt.Errorf("%w %s (backed up to %s): %w", ErrCorrupt, path, backupPath, err)
	}
	loaded.Day = day
	return &loaded, true, nil
}

// SaveDay atomically writes d to its day file.
func SaveDay(base string, d *model.ActiveDay) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	return WriteFileAtomic(dayFilePath(base, d.Day), data)
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place. Missing directories are created; the file is private to the
// user.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// GetDay returns the stored day or a fresh one. A fresh day inherits the
// main location and the still running issue of the most recent stored day
// within the previous week. Fresh days are not persisted.
func GetDay(base string, day model.Day) (*model.ActiveDay, error) {
	d, ok, err := LoadDay(base, day)
	if err != nil || ok {
		return d, err
	}

	fresh := model.NewActiveDay(day, model.Office, nil)
	for i := 1; i <= carryOverDays; i++ {
		prev, ok, err := LoadDay(base, day.AddDays(-i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if prev.MainLocation != "" {
			fresh.MainLocation = prev.MainLocation
		}
		fresh.ActiveIssue = prev.CurrentIssue(timecalc.EndOfDay)
		break
	}
	return fresh, nil
}

// ListDays loads all stored days in [from, to], ascending.
func ListDays(base string, from, to model.Day) ([]*model.ActiveDay, error) {
	var days []*model.ActiveDay
	for d := from; !d.After(to); d = d.Next() {
		loaded, ok, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		if ok {
			days = append(days, loaded)
		}
	}
	return days, nil
}
