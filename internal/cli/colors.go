// Package cli provides terminal output helpers for the generator CLI.
package cli

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// style is an ANSI SGR escape sequence.
type style string

const (
	reset   style = "\033[0m"
	red     style = "\033[31m"
	green   style = "\033[32m"
	yellow  style = "\033[33m"
	magenta style = "\033[35m"
	cyan    style = "\033[36m"
	boldSeq style = "\033[1m"
)

// ColorsEnabled controls whether colored output is produced.
var ColorsEnabled = detectColors()

// detectColors decides whether escape sequences are safe to emit:
// NO_COLOR (https://no-color.org/) wins, and stdout must be a terminal.
// Windows 10 1511+ handles ANSI sequences once a terminal is attached.
func detectColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	if runtime.GOOS == "windows" {
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
	return true
}

// DisableColors turns off colored output, for the /NO-COLOR flag.
func DisableColors() {
	ColorsEnabled = false
}

func (s style) wrap(text string) string {
	if !ColorsEnabled {
		return text
	}
	return string(s) + text + string(reset)
}

// Error formats text in red.
func Error(text string) string {
	return red.wrap(text)
}

// Success formats text in green.
func Success(text string) string {
	return green.wrap(text)
}

// Warning formats text in yellow.
func Warning(text string) string {
	return yellow.wrap(text)
}

// Adjustment formats an auto-correction note in yellow. These share the
// warning color: the run succeeded but the input was changed.
func Adjustment(text string) string {
	return yellow.wrap(text)
}

// Info formats text in cyan.
func Info(text string) string {
	return cyan.wrap(text)
}

// Bold formats text for emphasis and section headers.
func Bold(text string) string {
	return boldSeq.wrap(text)
}

// Filename formats a filename or path in cyan.
func Filename(text string) string {
	return cyan.wrap(text)
}

// Number formats a count in magenta.
func Number(text string) string {
	return magenta.wrap(text)
}
