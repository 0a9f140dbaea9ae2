package config

import (
	"fmt"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDatabasePath   = "database.path"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyServerAddr     = "server.addr"
	KeyPreset         = "detection.preset"
	KeyWindowWeeks    = "detection.window_weeks"
	KeyMinOccurrences = "detection.min_occurrences"
	KeyTolerance      = "detection.amount_tolerance_pct"
	KeyWeeklyRhythm   = "detection.enable_weekly_rhythm"
	KeyMonthlyRhythm  = "detection.enable_monthly_rhythm"
	KeyMemoHints      = "detection.memo_hints"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/recur/recur.db"

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyPreset, recurring.PresetDefault)
}

// DatabaseDSN returns the configured store location. File paths are expanded;
// PostgreSQL URLs are returned as-is.
func DatabaseDSN(v *viper.Viper) string {
	dsn := v.GetString(KeyDatabasePath)
	if dsn == "" {
		dsn = DefaultDatabasePath
	}
	if IsPostgresDSN(dsn) {
		return dsn
	}
	return ExpandPath(dsn)
}

// DetectionConfig starts from the configured preset and applies every
// detection key that has been set explicitly. The result is validated.
func DetectionConfig(v *viper.Viper) (recurring.Config, error) {
	cfg, err := recurring.Preset(v.GetString(KeyPreset))
	if err != nil {
		return recurring.Config{}, err
	}

	if v.IsSet(KeyWindowWeeks) {
		cfg.WindowWeeks = v.GetInt(KeyWindowWeeks)
	}
	if v.IsSet(KeyMinOccurrences) {
		cfg.MinOccurrences = v.GetInt(KeyMinOccurrences)
	}
	if v.IsSet(KeyTolerance) {
		cfg.AmountTolerancePct = v.GetFloat64(KeyTolerance)
	}
	if v.IsSet(KeyWeeklyRhythm) {
		cfg.EnableWeeklyRhythm = v.GetBool(KeyWeeklyRhythm)
	}
	if v.IsSet(KeyMonthlyRhythm) {
		cfg.EnableMonthlyRhythm = v.GetBool(KeyMonthlyRhythm)
	}
	if v.IsSet(KeyMemoHints) {
		cfg.MemoHints = v.GetStringSlice(KeyMemoHints)
	}

	if err := cfg.Validate(); err != nil {
		return recurring.Config{}, fmt.Errorf("detection settings: %w", err)
	}
	return cfg.Normalized(), nil
}
