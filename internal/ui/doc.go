// Package ui implements the interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three screens, one per [shared.Route]:
//  1. Sign in: username and password inputs
//  2. Sign up: a three step wizard (basic, academic and learning preferences)
//  3. Dashboard: profile card, video upload with progress and one tab per content section
//
// Screens delegate to the controllers package; the views only hold widget state. Controllers
// request screen changes through a [RouteQueue], which feeds them back into the event loop as
// [MsgRoute] messages. Upload progress flows through a channel from the upload workflow and is
// read one update per command.
package ui
