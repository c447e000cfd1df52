package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/surf/internal/models"
	"github.com/desertthunder/surf/internal/shared"
	"github.com/desertthunder/surf/internal/tasks"
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
	MsgRoute MsgKind = iota
	MsgSigninDone
	MsgSignupDone
	MsgProfileLoaded
	MsgPreferencesSaved
	MsgUploadProgress
	MsgUploadDone
)

// Kind reports the message type.
func (m Msg) Kind() MsgKind { return m.kind }

// routeMsg is the constructor for [MsgRoute]
func routeMsg(route shared.Route) Msg {
	return Msg{kind: MsgRoute, data: route}
}

// signinDoneMsg is the constructor for [MsgSigninDone]
func signinDoneMsg(err error) Msg {
	return Msg{kind: MsgSigninDone, data: err}
}

// signupDoneMsg is the constructor for [MsgSignupDone]
func signupDoneMsg(err error) Msg {
	return Msg{kind: MsgSignupDone, data: err}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(err error) Msg {
	return Msg{kind: MsgProfileLoaded, data: err}
}

// preferencesSavedMsg is the constructor for [MsgPreferencesSaved]
func preferencesSavedMsg(err error) Msg {
	return Msg{kind: MsgPreferencesSaved, data: err}
}

// uploadProgressMsg is the constructor for [MsgUploadProgress]
func uploadProgressMsg(update tasks.ProgressUpdate, ch <-chan tasks.ProgressUpdate) Msg {
	return Msg{
		kind: MsgUploadProgress,
		data: struct {
			update tasks.ProgressUpdate
			ch     <-chan tasks.ProgressUpdate
		}{update, ch},
	}
}

// uploadDoneMsg is the constructor for [MsgUploadDone]
func uploadDoneMsg(result *models.UploadResult, err error) Msg {
	return Msg{
		kind: MsgUploadDone,
		data: struct {
			result *models.UploadResult
			err    error
		}{result, err},
	}
}

func (m Msg) err() error {
	err, _ := m.data.(error)
	return err
}
