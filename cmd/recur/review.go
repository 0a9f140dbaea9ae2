package main

import (
	"fmt"

	"github.com/Veraticus/the-spice-must-recur/internal/cli"
	"github.com/Veraticus/the-spice-must-recur/internal/tui"
	"github.com/Veraticus/the-spice-must-recur/internal/tui/themes"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Pick subscriptions to cancel and see what you'd save",
		Long: `Open an interactive list of detected recurring payments. Mark the ones
you would cancel and watch the monthly and yearly savings add up.`,
		Args: cobra.NoArgs,
		RunE: runReview,
	}

	addDetectionFlags(cmd)
	cmd.Flags().String("theme", "default", "color theme (default, catppuccin)")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

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

	themeName, _ := cmd.Flags().GetString("theme")
	savings, err := tui.Run(ctx, result,
		tui.WithTheme(themes.ByName(themeName)),
		tui.WithWindow(d.preset, d.detector.Since(), d.now),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if savings.Count == 0 {
		_, err = fmt.Fprintln(out, cli.FormatInfo("Nothing selected."))
		return err
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Cancelling %d subscriptions would save about %s a month (%s a year).",
		savings.Count,
		savings.Monthly.StringFixed(2),
		savings.Annual.StringFixed(2))))
	return err
}
