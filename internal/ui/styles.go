package ui

import "fmt"

// ANSI256 color codes used by the CLI output.
const (
	colorAccent = 74  // blue
	colorOK     = 114 // green
	colorWarn   = 178 // amber
	colorMuted  = 245 // medium gray
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderStatus colors a session status: green for complete, amber otherwise.
func RenderStatus(status string) string {
	if noColor {
		return status
	}
	color := colorWarn
	if status == "complete" {
		color = colorOK
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, status)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
