package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ph1ltep/wfgrid/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cellWidth = m.calculateCellWidth()
		m.styleCache = NewStyleCache(m.styles, m.cellWidth)
		m.input.Width = max(4, m.cellWidth-2)
		return m, nil

	case commands.SavedMsg:
		m.saving = false
		if msg.Result.NoOp {
			m.setStatus("Nothing to save", false)
			return m, m.clearStatusLater()
		}
		m.mode = ModeView
		m.rebuildGrid()
		if msg.Result.Applied == 0 {
			// Edits reverted to the committed values; the store was
			// never called.
			m.setStatus("No changes to persist", false)
		} else {
			m.setStatus(fmt.Sprintf("Saved %d change(s)", msg.Result.Applied), false)
		}
		LogSave(msg.Result.Applied, nil)
		return m, m.clearStatusLater()

	case commands.SaveFailedMsg:
		m.saving = false
		m.setStatus(msg.Err.Error(), true)
		LogSave(0, msg.Err)
		return m, m.clearStatusLater()

	case commands.ErrMsg:
		m.err = msg.Err
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)
		return m, m.clearStatusLater()

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg, false)
		return m, m.clearStatusLater()

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Forward everything else to the cell editor while it is focused.
	if m.mode == ModeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) clearStatusLater() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// calculateCellWidth spreads the terminal width over the label column
// plus the data columns.
func (m Model) calculateCellWidth() int {
	cols := len(m.gridCfg.Cols) + 1
	if cols <= 1 || m.width <= 0 {
		return defaultCellWidth
	}
	w := m.width / cols
	if w < 6 {
		w = 6
	}
	if w > 20 {
		w = 20
	}
	return w
}
