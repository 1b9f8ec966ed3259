// Package viz renders bench runs in the terminal: a lipgloss summary report,
// asciigraph traces of feedback and control signal, and a bubbletea model
// that follows a scenario live.
//
// # Key Bindings
//
//	q, esc, ctrl+c - quit the live view
package viz
