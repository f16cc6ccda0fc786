package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the form until the user quits or ctx is canceled, and returns
// the final model so callers can save the last estimate.
func Run(ctx context.Context, estimator Estimator, taxYear int) (Model, error) {
	program := tea.NewProgram(New(estimator, taxYear), tea.WithContext(ctx), tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return Model{}, fmt.Errorf("estimator form failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("unexpected model type %T", final)
	}
	return m, nil
}
