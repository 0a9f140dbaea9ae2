package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-recur/internal/cli"
	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/spf13/cobra"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Show the built-in detection presets",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	}
}

func runPresets(cmd *cobra.Command, _ []string) error {
	var b strings.Builder
	b.WriteString(cli.FormatTitle("Detection presets"))
	b.WriteString("\n")

	for _, name := range recurring.PresetNames() {
		cfg, err := recurring.Preset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "%s  %s\n",
			cli.BoldStyle.Render(fmt.Sprintf("%-8s", name)),
			fmt.Sprintf("%d weeks · at least %d payments · ±%.0f%% amount",
				cfg.WindowWeeks,
				cfg.MinOccurrences,
				cfg.AmountTolerancePct*100))
	}

	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render("Memo hints: " + strings.Join(recurring.DefaultConfig().MemoHints, ", ")))
	b.WriteString("\n")

	_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
