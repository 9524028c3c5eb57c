package tui

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeEdit:
		return m.handleEditKeys(msg)
	default:
		return m.handleViewKeys(msg)
	}
}

// handleViewKeys handles keys while viewing the committed grid.
func (m Model) handleViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "h", "left":
		m.moveCursor(0, -1)
	case "l", "right":
		m.moveCursor(0, 1)
	case "j", "down":
		m.moveCursor(1, 0)
	case "k", "up":
		m.moveCursor(-1, 0)

	case "o":
		m.toggleOrientation()

	case "f":
		// Switching fields is always clean while viewing.
		if err := m.sess.SwitchField(m.nextFieldValue(), false); err != nil {
			return m, commands.Status(err.Error())
		}
		m.rebuildGrid()

	case "c":
		if err := clipboard.WriteAll(BuildTSV(m.gridCfg, m.sess.Field().Type)); err != nil {
			return m, commands.Status("Copy failed: " + err.Error())
		}
		return m, commands.Status("Copied table to clipboard")

	case "e", "enter":
		m.sess.BeginEdit()
		m.mode = ModeEdit
		m.rebuildGrid()
		LogModeChange(ModeView, ModeEdit, "begin edit")
	}
	return m, nil
}

// handleEditKeys handles keys while an edit session is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The save command runs off the update loop; while it is pending
	// only navigation may touch the model. Everything that mutates the
	// session would race the in-flight Save.
	if m.saving {
		switch msg.String() {
		case "esc", "q", "f", "x", "backspace", "s", "ctrl+s", "enter", "i", "o":
			return m, commands.Status("Save in progress")
		}
	}

	switch msg.String() {
	case "esc", "q":
		return m.requestCancel(confirmCancelEdit)

	case "h", "left":
		m.moveCursor(0, -1)
	case "l", "right":
		m.moveCursor(0, 1)
	case "j", "down":
		m.moveCursor(1, 0)
	case "k", "up":
		m.moveCursor(-1, 0)

	case "o":
		m.toggleOrientation()

	case "f":
		next := m.nextFieldValue()
		if err := m.sess.SwitchField(next, false); err != nil {
			if errors.Is(err, session.ErrUnsavedChanges) {
				m.mode = ModeConfirm
				m.confirm = confirmSwitchField
				m.pendingField = next
				return m, nil
			}
			return m, commands.Status(err.Error())
		}
		m.rebuildGrid()

	case "x", "backspace":
		if !m.cursorEditable() {
			return m, nil
		}
		if err := m.sess.SetCell(m.cursorCell().Key, nil); err != nil {
			return m, commands.Status(err.Error())
		}
		m.rebuildGrid()

	case "s", "ctrl+s":
		if !m.sess.HasChanges() {
			return m, commands.Status("Nothing to save")
		}
		m.saving = true
		return m, commands.Save(m.sess)

	case "enter", "i":
		if !m.cursorEditable() {
			return m, nil
		}
		cd := m.cursorCell()
		m.input.SetValue(EditText(cd.Value))
		m.input.CursorEnd()
		m.input.Focus()
		m.mode = ModeInput
		LogModeChange(ModeEdit, ModeInput, fmt.Sprintf("edit cell %s", cd.Key))
	}
	return m, nil
}

// handleInputKeys handles keys while the cell editor is focused.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = ModeEdit
		return m, nil

	case "enter":
		v, err := ParseValue(m.input.Value())
		if err != nil {
			return m, commands.Status(err.Error())
		}
		if err := m.sess.SetCell(m.cursorCell().Key, v); err != nil {
			return m, commands.Status(err.Error())
		}
		m.input.Blur()
		m.mode = ModeEdit
		m.rebuildGrid()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmKeys handles the discard confirmation modal.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		switch m.confirm {
		case confirmQuit:
			return m, tea.Quit
		case confirmSwitchField:
			if err := m.sess.SwitchField(m.pendingField, true); err != nil {
				m.mode = ModeEdit
				return m, commands.Status(err.Error())
			}
			m.mode = ModeEdit
			m.rebuildGrid()
		default:
			if err := m.sess.Cancel(true); err != nil {
				m.mode = ModeEdit
				return m, commands.Status(err.Error())
			}
			m.mode = ModeView
			m.rebuildGrid()
			LogModeChange(ModeConfirm, ModeView, "discard confirmed")
		}
	case "n", "esc":
		m.mode = ModeEdit
	}
	return m, nil
}

// requestCancel leaves edit mode, going through the confirmation modal
// when unsaved changes exist.
func (m Model) requestCancel(action confirmAction) (tea.Model, tea.Cmd) {
	err := m.sess.Cancel(false)
	if errors.Is(err, session.ErrUnsavedChanges) {
		m.mode = ModeConfirm
		m.confirm = action
		return m, nil
	}
	if err != nil {
		return m, commands.Status(err.Error())
	}
	m.mode = ModeView
	m.rebuildGrid()
	LogModeChange(ModeEdit, ModeView, "clean cancel")
	return m, nil
}

func (m *Model) moveCursor(dRow, dCol int) {
	m.cursor.Row += dRow
	m.cursor.Col += dCol
	m.clampCursor()
	LogCursorMove(m.cursor.Row, m.cursor.Col)
}

func (m *Model) toggleOrientation() {
	if m.orientation == grid.Horizontal {
		m.orientation = grid.Vertical
	} else {
		m.orientation = grid.Horizontal
	}
	// The cursor follows the transpose so it stays on the same cell.
	m.cursor.Row, m.cursor.Col = m.cursor.Col, m.cursor.Row
	m.rebuildGrid()
}

// nextFieldValue cycles through the configured fields.
func (m Model) nextFieldValue() string {
	fields := m.config.Table.Fields
	for i, f := range fields {
		if f.Value == m.sess.Field().Value {
			return fields[(i+1)%len(fields)].Value
		}
	}
	return fields[0].Value
}
