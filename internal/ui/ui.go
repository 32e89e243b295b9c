package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the fold viewer for snap. When changes is non-nil every
// value received triggers load and the view is refreshed in place.
func Run(snap Snapshot, load Loader, changes <-chan struct{}) error {
	RefreshStyles()

	p := tea.NewProgram(newModel(snap, load, changes), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
