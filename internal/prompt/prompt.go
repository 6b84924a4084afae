// Package prompt provides the interactive confirmation used on degraded hosts.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	// Check if stdin is a character device (terminal)
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Confirm asks a yes/no question and reads one line from r.
// Empty input, end-of-input, and anything except y/yes decline.
// The decline default is what keeps unattended runs from proceeding on a
// degraded host.
func Confirm(w io.Writer, r io.Reader, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	reader := bufio.NewReader(r)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
