package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the review screen until the user quits and returns the savings
// total for what they selected.
func Run(ctx context.Context, result recurring.Result, opts ...Option) (recurring.SavingsSummary, error) {
	m := NewModel(result, opts...)

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if m.config.Input != nil {
		programOpts = append(programOpts, tea.WithInput(m.config.Input))
	}
	if m.config.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(m.config.Output))
	}

	final, err := tea.NewProgram(m, programOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return recurring.SavingsSummary{}, ctx.Err()
		}
		return recurring.SavingsSummary{}, fmt.Errorf("review screen failed: %w", err)
	}

	reviewed, ok := final.(Model)
	if !ok {
		return recurring.SavingsSummary{}, fmt.Errorf("unexpected model type %T", final)
	}
	return reviewed.Savings(), nil
}
