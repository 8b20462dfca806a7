package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStatusExpired MsgKind = iota
	MsgReportExported
)

// statusExpiredMsg is the constructor for [MsgStatusExpired]. Only the status with the same id is cleared.
func statusExpiredMsg(id int) Msg {
	return Msg{kind: MsgStatusExpired, data: id}
}

// reportExportedMsg is the constructor for [MsgReportExported]
func reportExportedMsg(path string, err error) Msg {
	return Msg{
		kind: MsgReportExported,
		data: struct {
			path string
			err  error
		}{path, err},
	}
}
