// Package ui provides the terminal interface for recgrid.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is the root state; every table in
// the record catalog gets a page, and records opened with "I" get detail
// pages of their own. A page owns a grid.Grid, which holds the interaction
// state (columns, filters, sort, selection, edit session, clipboard and
// pending commits), and a keymap.Dispatcher that turns keys into actions.
// A keymap.Router hands keys to the active page only.
//
// # Package Structure
//
//   - app.go: Model, Options, Update loop, messages and Run
//   - actions.go: dispatcher actions, commits, row creation, export
//   - page.go: page construction and per-page helpers
//   - render.go, header.go: grid, tab bar and footer rendering
//   - modal.go, overlays.go, help.go: dialogs drawn over the grid
//   - mouse.go: click, double-click, wheel and header sorting
//   - keys.go: application bindings above the grid dispatcher
//   - theme.go, style_helpers.go, strings.go, layout.go: presentation
//
// # Event Flow
//
//  1. A tick pulls a state.Store snapshot; new revisions go to every page
//  2. Keys go to the open modal, then the inline editor, then the
//     application bindings, then the active dispatcher
//  3. Commits run as commands against records.Source; results resolve in
//     the grid, which merges only the fields each commit changed
//  4. View configuration changes are saved by the grid, debounced
//
// # Key Bindings
//
// Grid keys are listed by "?". Application keys:
//
//   - [ / ]: Previous / next tab
//   - ctrl+w: Close a detail tab
//   - n / D: New row / duplicate row
//   - / / s: Filter / sort the selected column
//   - T: Cycle theme
//   - L: Show the log file
//   - ctrl+q: Quit
package ui
