package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/kakapo/tui/theme"
)

// PrettyLogger prints user-facing CLI messages. Structured records go through
// NewLogger instead.
type PrettyLogger struct {
	writer io.Writer
}

// NewPrettyLogger creates a pretty logger writing to stderr.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{writer: os.Stderr}
}

// WithWriter sets a custom writer for pretty output
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.writer = w
	return p
}

// Success prints a message with a checkmark.
func (p *PrettyLogger) Success(message string) {
	t := theme.DefaultTheme
	fmt.Fprintf(p.writer, "%s %s\n", t.Success.Render(theme.IconSuccess), t.Success.Render(message))
}

// InfoPretty prints an informational message.
func (p *PrettyLogger) InfoPretty(message string) {
	fmt.Fprintf(p.writer, "%s\n", theme.DefaultTheme.Info.Render(message))
}

// WarnPretty prints a warning.
func (p *PrettyLogger) WarnPretty(message string) {
	fmt.Fprintf(p.writer, "%s\n", theme.DefaultTheme.Warning.Render(message))
}

// ErrorPretty prints an error with an optional cause.
func (p *PrettyLogger) ErrorPretty(message string, err error) {
	t := theme.DefaultTheme
	fmt.Fprintf(p.writer, "%s %s", t.Error.Render(theme.IconError), t.Error.Render(message))
	if err != nil {
		fmt.Fprintf(p.writer, ": %s", t.Error.Render(err.Error()))
	}
	fmt.Fprintln(p.writer)
}

// Field prints a key-value pair.
func (p *PrettyLogger) Field(key string, value interface{}) {
	t := theme.DefaultTheme
	fmt.Fprintf(p.writer, "%s: %s\n", t.Muted.Render(key), t.Bold.Render(fmt.Sprint(value)))
}
