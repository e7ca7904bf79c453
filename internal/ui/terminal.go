// Package ui holds terminal presentation helpers for the flowtask CLI.
package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should receive ANSI colors.
// Resolution order: NO_COLOR (https://no-color.org, any non-empty value
// disables), CLICOLOR_FORCE=1 (forces on), CLICOLOR=0 (forces off), then
// TTY detection.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1":
		return true
	case strings.TrimSpace(os.Getenv("CLICOLOR")) == "0":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
