// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ph1ltep/wfgrid/internal/session"
)

// SavedMsg is sent when a save completes successfully.
type SavedMsg struct {
	Result session.SaveResult
}

// SaveFailedMsg is sent when a save is rejected or errors out. The
// session keeps its edit state, so the user can fix and retry.
type SaveFailedMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Save runs the session save off the update loop. The session's own
// in-flight guard rejects a second save dispatched before this one
// resolves.
func Save(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		res, err := sess.Save(context.Background())
		if err != nil {
			return SaveFailedMsg{Err: err}
		}
		return SavedMsg{Result: res}
	}
}

// Status returns a command that emits a temporary status message.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}
