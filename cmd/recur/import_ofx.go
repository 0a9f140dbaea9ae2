package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Veraticus/the-spice-must-recur/internal/cli"
	"github.com/Veraticus/the-spice-must-recur/internal/common"
	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/Veraticus/the-spice-must-recur/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.
Transactions already in the database are skipped.

Examples:
  # Import single file
  recur import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import every QFX file in a directory
  recur import-ofx ~/Downloads/*.qfx

  # Import from multiple banks
  recur import-ofx ~/Downloads/Chase/*.qfx ~/Downloads/Ally/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
// The result is sorted and free of duplicates.
func expandFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				matches = []string{pattern}
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// importSummary is what an import run found and saved.
type importSummary struct {
	perFile    map[string]int
	parsed     int
	unique     int
	inserted   int
	failed     int
	duplicates int
}

// collectTransactions parses every file, deduplicating by hash across files.
// Files that fail to open or parse are logged and skipped.
func collectTransactions(ctx context.Context, files []string, progress *cli.ImportProgress) ([]model.Transaction, importSummary) {
	parser := ofx.NewParser()
	summary := importSummary{perFile: make(map[string]int)}
	seen := make(map[string]bool)
	var all []model.Transaction

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		name := filepath.Base(path)

		txns, err := parseFile(ctx, parser, path)
		if progress != nil {
			progress.Step(name)
		}
		if err != nil {
			common.LogError(err, "Failed to import file", common.Fields{"file": path})
			summary.failed++
			continue
		}

		added := 0
		for _, txn := range txns {
			if seen[txn.Hash] {
				summary.duplicates++
				continue
			}
			seen[txn.Hash] = true
			all = append(all, txn)
			added++
		}

		summary.parsed += len(txns)
		summary.perFile[name] += added
		common.LogDebug("Processed file", common.Fields{
			"file":               name,
			"transactions_found": len(txns),
			"added":              added,
		})
	}

	summary.unique = len(all)
	return all, summary
}

func parseFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Nothing from this run was saved.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewUserError("No files found to import", common.ErrNotFound)
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(files))
	txns, summary := collectTransactions(ctx, files, progress)
	progress.Finish()

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(txns) == 0 {
		return common.NewUserError("No transactions found in any file", common.ErrNoTransactions)
	}

	if !dryRun {
		store, err := initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		summary.inserted, err = store.SaveTransactions(ctx, txns)
		if err != nil {
			return fmt.Errorf("failed to save transactions: %w", err)
		}
	}

	return printImportSummary(cmd.OutOrStdout(), summary, dryRun)
}

func printImportSummary(w io.Writer, s importSummary, dryRun bool) error {
	names := make([]string, 0, len(s.perFile))
	for name := range s.perFile {
		names = append(names, name)
	}
	sort.Strings(names)

	msg := cli.FormatTitle("Import summary") + "\n"
	for _, name := range names {
		msg += fmt.Sprintf("  %s %s: %d transactions\n", cli.FolderIcon, name, s.perFile[name])
	}
	msg += fmt.Sprintf("\nParsed %d, unique %d, duplicates across files %d, failed files %d\n",
		s.parsed, s.unique, s.duplicates, s.failed)

	if dryRun {
		msg += cli.FormatInfo("Dry run - nothing saved.") + "\n"
	} else {
		msg += cli.FormatSuccess(fmt.Sprintf("Saved %d new transactions (%d already stored).",
			s.inserted, s.unique-s.inserted)) + "\n"
	}

	_, err := io.WriteString(w, msg)
	return err
}
