// Package tui is the terminal shell around the board store and the editor
// session.
//
// Allowed here:
// - key routing per scope (board, drag, modal, find)
// - rendering and the modal form
// - async commands whose results come back as messages
//
// Not allowed here:
// - board mutations other than through *board.Board
// - draft state kept outside *editor.Session
package tui
