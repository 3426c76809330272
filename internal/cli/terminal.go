package cli

import (
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
	UseColor   bool
}

// NewTerminal creates a new Terminal instance
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal, // Only use color in terminal
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if t == nil || !t.UseColor {
		return text
	}
	return color + text + ColorReset
}
