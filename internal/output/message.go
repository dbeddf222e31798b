package output

import (
	"fmt"
	"os"
)

// Info prints an advisory line to stdout.
func Info(msg string) {
	_, _ = fmt.Fprintln(os.Stdout, "ℹ️  "+msg)
}

// Infof prints a formatted advisory line to stdout.
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning line to stderr. Warnings go to stderr so piped
// stdout stays machine-readable.
func Warn(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, "⚠️  "+msg)
}

// Warnf prints a formatted warning line to stderr.
func Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}

// Success prints a confirmation line to stdout.
func Success(msg string) {
	_, _ = fmt.Fprintln(os.Stdout, "✅ "+msg)
}

// Successf prints a formatted confirmation line to stdout.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}
