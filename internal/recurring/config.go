package recurring

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig is returned when a detection config fails validation.
	ErrInvalidConfig = errors.New("invalid detection config")
	// ErrUnknownPreset is returned when a preset name is not recognized.
	ErrUnknownPreset = errors.New("unknown detection preset")
)

// Preset names.
const (
	PresetDefault = "default"
	PresetStrict  = "strict"
	PresetLoose   = "loose"
)

// Config controls a single detection run.
type Config struct {
	// MemoHints are lowercase substrings (brand or service keywords) that
	// count as a weak positive signal when found in a member's memo.
	MemoHints []string `json:"memo_hints"`
	// WindowWeeks is how far back from now transactions are considered.
	WindowWeeks int `json:"window_weeks"`
	// MinOccurrences is the minimum cluster size that counts as recurring.
	MinOccurrences int `json:"min_occurrences"`
	// AmountTolerancePct is the band around a cluster's seed amount, e.g. 0.35 = ±35%.
	AmountTolerancePct float64 `json:"amount_tolerance_pct"`
	// EnableWeeklyRhythm and EnableMonthlyRhythm are accepted and carried,
	// but the rhythm classifier does not consult them.
	EnableWeeklyRhythm  bool `json:"enable_weekly_rhythm"`
	EnableMonthlyRhythm bool `json:"enable_monthly_rhythm"`
}

func defaultMemoHints() []string {
	return []string{
		"netflix",
		"spotify",
		"youtube",
		"disney",
		"hulu",
		"prime",
		"apple",
		"icloud",
		"google",
		"microsoft",
		"adobe",
		"dropbox",
		"gym",
		"fitness",
		"subscription",
		"membership",
	}
}

// DefaultConfig returns the balanced preset.
func DefaultConfig() Config {
	return Config{
		WindowWeeks:         16,
		MinOccurrences:      3,
		AmountTolerancePct:  0.20,
		EnableWeeklyRhythm:  true,
		EnableMonthlyRhythm: true,
		MemoHints:           defaultMemoHints(),
	}
}

// StrictConfig returns a preset that favors precision over recall.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.WindowWeeks = 12
	cfg.AmountTolerancePct = 0.10
	return cfg
}

// LooseConfig returns a preset that surfaces more, weaker candidates.
func LooseConfig() Config {
	cfg := DefaultConfig()
	cfg.WindowWeeks = 26
	cfg.MinOccurrences = 2
	cfg.AmountTolerancePct = 0.35
	return cfg
}

// PresetNames lists the known presets in display order.
func PresetNames() []string {
	return []string{PresetDefault, PresetStrict, PresetLoose}
}

// Preset returns a fresh copy of the named preset. Names are case-insensitive
// and an empty name selects the default preset.
func Preset(name string) (Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetDefault:
		return DefaultConfig(), nil
	case PresetStrict:
		return StrictConfig(), nil
	case PresetLoose:
		return LooseConfig(), nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// Validate checks the numeric bounds of the config.
func (c Config) Validate() error {
	if c.WindowWeeks < 1 {
		return fmt.Errorf("%w: window_weeks must be >= 1, got %d", ErrInvalidConfig, c.WindowWeeks)
	}
	if c.MinOccurrences < 2 {
		return fmt.Errorf("%w: min_occurrences must be >= 2, got %d", ErrInvalidConfig, c.MinOccurrences)
	}
	if c.AmountTolerancePct < 0 || c.AmountTolerancePct >= 1 {
		return fmt.Errorf("%w: amount_tolerance_pct must be in [0,1), got %v", ErrInvalidConfig, c.AmountTolerancePct)
	}
	return nil
}

// Normalized returns a copy with memo hints lower-cased and trimmed.
// Empty hints are dropped since they would match every memo.
func (c Config) Normalized() Config {
	hints := make([]string, 0, len(c.MemoHints))
	for _, h := range c.MemoHints {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hints = append(hints, h)
		}
	}
	c.MemoHints = hints
	return c
}
