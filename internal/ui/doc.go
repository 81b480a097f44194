// Package ui provides the terminal user interface for hexwalk.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program with two panes: the pattern table on top
// and the hex view below. The pattern table presents the rows produced by
// internal/drawer; the hex view renders the raw blob and owns the byte
// selection the two panes share.
//
// # Package Structure
//
//   - ui.go: model, Update loop, layout and the Run function
//   - table.go: pattern table rendering (columns, cursor, sort headers)
//   - hexview.go: hex pane rendering and the selection bridge
//   - keys.go: key bindings via bubbles/key
//   - theme.go: lipgloss themes and pre-built styles
//
// # Selection Flow
//
// The hex view implements drawer.SelectionBridge. Moving the hex cursor
// changes the selection; the next drawer pass flags every pattern row
// overlapping it, and those rows render in the highlight color. Pressing
// enter on a pattern row goes the other way: the row's byte span becomes
// the hex selection and the hex pane scrolls to it.
//
// # Key Bindings
//
//   - tab: switch pane
//   - j/k, arrows, pgup/pgdn, ctrl+u/ctrl+d, home/end: navigate
//   - space: expand/collapse container or chunk rows
//   - enter: select row bytes; on a truncation row, reveal more chunks
//   - c: collapse everything
//   - s / S: cycle sort column / reverse direction
//   - g: go to offset (hex pane)
//   - +/-: grow/shrink selection (hex pane)
//   - T: cycle theme, ?: help, q or ctrl+c: quit
//
// Theme and sort settings persist through internal/prefs.
package ui
