package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndiHofi/quarble-sub000/internal/normalize"
	"github.com/AndiHofi/quarble-sub000/internal/timecalc"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration for quarble, stored in <base>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// ResolutionMinutes is the booking granularity of the timesheet.
	ResolutionMinutes int `json:"resolution_minutes"`
	// CombineBookings merges bookings of the same issue within a span.
	CombineBookings *bool `json:"combine_bookings"`
	// RoundMode applies to times typed on the command line.
	RoundMode string        `json:"round_mode"`
	Breaks    BreaksConfig  `json:"breaks"`
	Log       LogConfig     `json:"log"`
	Outlook   OutlookConfig `json:"outlook"`
}

// BreaksConfig controls the lunch break cut out of long days.
type BreaksConfig struct {
	Enabled            *bool  `json:"enabled"`
	MinBreakMinutes    int    `json:"min_break_minutes"`
	MinWorkTimeMinutes int    `json:"min_work_time_minutes"`
	DefaultStart       string `json:"default_start"`
	DefaultEnd         string `json:"default_end"`
}

// LogConfig selects the zap logger setup.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar sync settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultIssue is the issue imported Outlook events are booked on.
	DefaultIssue string `json:"default_issue"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local.
	Timezone string `json:"timezone"`
}

const (
	DefaultResolution         = 15
	DefaultRoundMode          = "normal"
	DefaultMinBreakMinutes    = 45
	DefaultMinWorkTimeMinutes = 6 * 60
	DefaultBreakStart         = "12:00"
	DefaultBreakEnd           = "12:45"
	DefaultLogLevel           = "warn"
	DefaultLogFormat          = "console"
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultIssue is the issue used for calendar imports when none is given.
	DefaultIssue = "MEET-1"
)

// Default returns a Config pre-filled with the built-in defaults.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// quarble configuration – <base>/config.json
//
// All settings are optional; missing values fall back to the defaults
// shown below.
{
  // Booking granularity in minutes. Every normalized booking is a
  // positive multiple of it.
  "resolution_minutes": 15,

  // Merge bookings of the same issue within one on-duty span.
  "combine_bookings": true,

  // Rounding of times typed on the command line:
  // none, normal, up, down, sat-up, sat-down
  "round_mode": "normal",

  // ── Lunch break ──────────────────────────────────────────────────────────
  // When a day without any break reaches min_work_time_minutes, the default
  // break window is cut out of the filled-in bookings.
  // Set "enabled" to false to turn insertion off. Minute values must not be
  // negative; 0 means the default shown here.
  "breaks": {
    "enabled": true,
    "min_break_minutes": 45,
    "min_work_time_minutes": 360,
    "default_start": "12:00",
    "default_end": "12:45"
  },

  // ── Logging ──────────────────────────────────────────────────────────────
  // level: debug, info, warn, error; format: console or json
  "log": {
    "level": "warn",
    "format": "console"
  },

  // ── Microsoft Graph / Outlook calendar sync ──────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Issue that imported calendar events are booked on.
    // Can be overridden per-sync with: quarble outlook sync --issue <ID>
    "default_issue": "MEET-1",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use the local timezone.
    "timezone": ""
  }
}
`

// FilePath returns the path of the config file below base.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. created reports whether the template was written.
func Load(base string) (cfg Config, created bool, err error) {
	path := FilePath(base)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return Default(), false, err
		}
		return Default(), true, nil
	}
	cfg, err = LoadFrom(path)
	return cfg, false, err
}

// LoadFrom parses the config file at path. Zero-valued fields are filled
// with the built-in defaults and the result is validated.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
// A zero minute value counts as missing; breaks.enabled is the switch for
// turning break insertion off.
func (c *Config) applyDefaults() {
	yes := true
	if c.ResolutionMinutes == 0 {
		c.ResolutionMinutes = DefaultResolution
	}
	if c.CombineBookings == nil {
		c.CombineBookings = &yes
	}
	if c.RoundMode == "" {
		c.RoundMode = DefaultRoundMode
	}
	if c.Breaks.Enabled == nil {
		c.Breaks.Enabled = &yes
	}
	if c.Breaks.MinBreakMinutes == 0 {
		c.Breaks.MinBreakMinutes = DefaultMinBreakMinutes
	}
	if c.Breaks.MinWorkTimeMinutes == 0 {
		c.Breaks.MinWorkTimeMinutes = DefaultMinWorkTimeMinutes
	}
	if c.Breaks.DefaultStart == "" {
		c.Breaks.DefaultStart = DefaultBreakStart
	}
	if c.Breaks.DefaultEnd == "" {
		c.Breaks.DefaultEnd = DefaultBreakEnd
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = DefaultTenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = DefaultClientID
	}
	if c.Outlook.DefaultIssue == "" {
		c.Outlook.DefaultIssue = DefaultIssue
	}
}

// Validate checks the values that defaults cannot repair.
func (c Config) Validate() error {
	if c.ResolutionMinutes <= 0 {
		return fmt.Errorf("%w: resolution_minutes must be positive, got %d", ErrInvalid, c.ResolutionMinutes)
	}
	if c.Breaks.MinBreakMinutes < 0 {
		return fmt.Errorf("%w: breaks.min_break_minutes must not be negative, got %d", ErrInvalid, c.Breaks.MinBreakMinutes)
	}
	if c.Breaks.MinWorkTimeMinutes < 0 {
		return fmt.Errorf("%w: breaks.min_work_time_minutes must not be negative, got %d", ErrInvalid, c.Breaks.MinWorkTimeMinutes)
	}
	if _, err := timecalc.ParseRoundMode(c.RoundMode); err != nil {
		return fmt.Errorf("%w: round_mode: %w", ErrInvalid, err)
	}
	if _, err := c.breakWindow(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

func (c Config) breakWindow() (timecalc.Range, error) {
	start, err := timecalc.ParseTime(c.Breaks.DefaultStart)
	if err != nil {
		return timecalc.Range{}, fmt.Errorf("%w: breaks.default_start: %w", ErrInvalid, err)
	}
	end, err := timecalc.ParseTime(c.Breaks.DefaultEnd)
	if err != nil {
		return timecalc.Range{}, fmt.Errorf("%w: breaks.default_end: %w", ErrInvalid, err)
	}
	if !start.Before(end) {
		return timecalc.Range{}, fmt.Errorf("%w: break window %s-%s is empty", ErrInvalid, start, end)
	}
	return timecalc.NewRange(start, end), nil
}

// Round returns the configured CLI round mode; invalid values were rejected
// by Validate.
func (c Config) Round() timecalc.RoundMode {
	mode, err := timecalc.ParseRoundMode(c.RoundMode)
	if err != nil {
		return timecalc.RoundNormal
	}
	return mode
}

// Normalizer builds the normalization settings.
func (c Config) Normalizer() (normalize.Normalizer, error) {
	window, err := c.breakWindow()
	if err != nil {
		return normalize.Normalizer{}, err
	}
	return normalize.Normalizer{
		Resolution: c.ResolutionMinutes,
		Breaks: normalize.BreaksConfig{
			MinBreakMinutes:    c.Breaks.MinBreakMinutes,
			MinWorkTimeMinutes: c.Breaks.MinWorkTimeMinutes,
			DefaultBreak:       window,
		},
		CombineBookings: c.CombineBookings == nil || *c.CombineBookings,
		AddBreak:        c.Breaks.Enabled == nil || *c.Breaks.Enabled,
	}, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
