// SPDX-License-Identifier: EPL-2.0

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the editor until the user saves or quits. It returns the
// confirmed export, or nil when the user quit without saving.
func Run(m Model) (*Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run editor: %w", err)
	}

	fm, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}

	return &fm, nil
}
