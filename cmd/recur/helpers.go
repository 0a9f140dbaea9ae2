package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/common"
	"github.com/Veraticus/the-spice-must-recur/internal/config"
	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/Veraticus/the-spice-must-recur/internal/service"
	"github.com/Veraticus/the-spice-must-recur/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// initStorage opens the configured store and brings its schema up to date.
func initStorage(ctx context.Context) (service.TransactionStore, error) {
	dsn := config.DatabaseDSN(viper.GetViper())

	store, err := storage.NewStorage(ctx, dsn)
	if err != nil {
		return nil, common.NewUserError("Could not open the transaction database", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Opened transaction store", "driver", store.Driver())
	return store, nil
}

// addDetectionFlags registers the flags shared by detect, review and serve.
func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "detection preset (default, strict, loose)")
	cmd.Flags().Int("window-weeks", 0, "how many weeks back to look")
	cmd.Flags().Int("min-occurrences", 0, "payments needed before something counts as recurring")
	cmd.Flags().Float64("tolerance", 0, "amount tolerance as a fraction, e.g. 0.2 for ±20%")
	cmd.Flags().StringSlice("hint", nil, "extra memo keyword that suggests a subscription (repeatable)")
	cmd.Flags().String("now", "", "detect as of this date (YYYY-MM-DD, default today)")
}

// detectionSettings resolves the detection config from config file, env and
// whichever flags were given on the command line.
func detectionSettings(cmd *cobra.Command) (recurring.Config, error) {
	flags := map[string]string{
		"preset":          config.KeyPreset,
		"window-weeks":    config.KeyWindowWeeks,
		"min-occurrences": config.KeyMinOccurrences,
		"tolerance":       config.KeyTolerance,
	}
	for flag, key := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}

	cfg, err := config.DetectionConfig(viper.GetViper())
	if err != nil {
		return recurring.Config{}, common.NewUserError("Invalid detection settings", err)
	}

	if hints, _ := cmd.Flags().GetStringSlice("hint"); len(hints) > 0 {
		cfg.MemoHints = append(cfg.MemoHints, hints...)
		cfg = cfg.Normalized()
	}
	return cfg, nil
}

// parseNow returns the --now date, or the current time when unset.
func parseNow(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	now, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("Invalid --now date %q (use YYYY-MM-DD)", raw), err)
	}
	return now, nil
}

// detection is one resolved detection run.
type detection struct {
	detector *recurring.Detector
	now      time.Time
	preset   string
}

func newDetection(cmd *cobra.Command) (*detection, error) {
	cfg, err := detectionSettings(cmd)
	if err != nil {
		return nil, err
	}

	nowFlag, _ := cmd.Flags().GetString("now")
	now, err := parseNow(nowFlag)
	if err != nil {
		return nil, err
	}

	detector, err := recurring.NewDetector(cfg, recurring.WithClock(func() time.Time { return now }))
	if err != nil {
		return nil, common.NewUserError("Invalid detection settings", err)
	}

	preset := viper.GetString(config.KeyPreset)
	if preset == "" {
		preset = recurring.PresetDefault
	}
	return &detection{detector: detector, now: now, preset: preset}, nil
}

// run loads the window from the store and detects.
func (d *detection) run(ctx context.Context, store service.TransactionStore) (recurring.Result, error) {
	since := d.detector.Since()

	txns, err := store.GetExpensesSince(ctx, since)
	if err != nil {
		return recurring.Result{}, fmt.Errorf("failed to load expenses: %w", err)
	}

	if len(txns) == 0 {
		count, err := store.GetTransactionCount(ctx)
		if err != nil {
			return recurring.Result{}, fmt.Errorf("failed to count transactions: %w", err)
		}
		if count == 0 {
			return recurring.Result{}, common.NewUserError(
				"No transactions yet. Import some with: recur import-ofx <files>",
				common.ErrNoTransactions)
		}
	}

	result := d.detector.Detect(txns)
	common.LogInfo("Detection complete", common.Fields{
		"preset":     d.preset,
		"since":      since.Format(dateLayout),
		"expenses":   len(txns),
		"candidates": result.Total,
	})

	return result, nil
}
