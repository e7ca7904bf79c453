package ui

import "fmt"

// ANSI256 color codes for task presentation.
const (
	colorDone    = 245 // medium gray, done tasks recede
	colorReady   = 74  // blue
	colorOverdue = 167 // soft red
)

var noColor bool

// RenderDone returns s styled for a completed task.
func RenderDone(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorDone, s)
}

// RenderReady returns s styled for a ready task.
func RenderReady(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorReady, s)
}

// RenderOverdue returns s styled for an overdue due date.
func RenderOverdue(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorOverdue, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
