package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/the-spice-must-recur/internal/cli"
	"github.com/Veraticus/the-spice-must-recur/internal/common"
	"github.com/spf13/cobra"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "List payments that look like subscriptions",
		Long: `Scan recent expenses for payments that repeat at a similar amount and
rank them by how confident the match is.

Examples:
  # Use the default preset (16 weeks, 3 payments, ±20%)
  recur detect

  # Cast a wider net
  recur detect --preset loose

  # Reproduce a past run as JSON
  recur detect --now 2024-06-30 --format json`,
		Args: cobra.NoArgs,
		RunE: runDetect,
	}

	addDetectionFlags(cmd)
	cmd.Flags().String("format", "table", "output format (table, json)")

	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return common.NewUserError(fmt.Sprintf("Unknown --format %q (use table or json)", format), common.ErrInvalidConfig)
	}

	d, err := newDetection(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := d.run(ctx, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	return cli.WriteReport(out, cli.ReportHeader{
		Now:    d.now,
		Since:  d.detector.Since(),
		Preset: d.preset,
	}, result)
}
