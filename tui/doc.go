// SPDX-License-Identifier: EPL-2.0

// Package tui is a terminal region editor built on bubbletea.
//
// The terminal window is the drawing surface: the first WindowSizeMsg
// resizes a frame.Canvas, which ends the session's layout wait. Frame
// callbacks (layout polling, the live spectrum) run on a frame.Queue that
// the model flushes on every tick.
package tui
