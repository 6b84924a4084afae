package errors

import (
	stderrors "errors"
	"strings"
)

// FormatForCLI formats an error for terminal display.
// Stage errors render as cause plus the remediation hint; anything else
// falls back to the plain error string.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var se *StageError
	if !stderrors.As(err, &se) {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(se.Message)
	if se.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(se.Cause.Error())
	}
	if se.Suggestion != "" {
		sb.WriteString("\n  fix: ")
		sb.WriteString(se.Suggestion)
	}
	return sb.String()
}
