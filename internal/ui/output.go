// Package ui provides consistent CLI output formatting for poolstrap.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a new output Writer. Color is enabled only when out is a
// terminal and noColor is false.
func New(out io.Writer, noColor bool) *Writer {
	styles := NoColorStyles()
	if !noColor && isTerminal(out) {
		styles = DefaultStyles()
	}
	return &Writer{
		out:    out,
		styles: styles,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Header prints a stage banner.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Header(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s\n", w.styles.Header.Render("==> "+msg))
}

// Status prints an indented status message.
func (w *Writer) Status(msg string) {
	_, _ = fmt.Fprintf(w.out, "    %s\n", msg)
}

// Statusf prints a formatted status message.
func (w *Writer) Statusf(format string, args ...any) {
	w.Status(fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	_, _ = fmt.Fprintf(w.out, "    %s\n", w.styles.Success.Render("ok: "+msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintf(w.out, "    %s\n", w.styles.Warning.Render("warning: "+msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprintf(w.out, "%s\n", w.styles.Error.Render("error: "+msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Code prints an indented command block.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "      %s\n", w.styles.Label.Render(line))
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Raw exposes the underlying writer for components that print their own
// formatting, like the confirmation prompt.
func (w *Writer) Raw() io.Writer {
	return w.out
}
