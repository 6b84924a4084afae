package preflight

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CheckNode verifies Node.js is installed and at or above the minimum
// major version. A node that is present but too old fails exactly like a
// missing one; the stratum stack needs current V8.
func (c *Checker) CheckNode(ctx context.Context) CheckResult {
	remedy := fmt.Sprintf("install Node.js %d or newer, e.g. nvm install %d", c.nodeMinMajor, c.nodeMinMajor)
	result := CheckResult{
		Name:     "node",
		Required: true,
		Remedy:   remedy,
	}

	path, err := c.lookPath("node")
	if err != nil {
		result.Status = StatusFail
		result.Message = "not installed"
		return result
	}
	result.Details = path

	version, err := c.runVersion(ctx, "node", "--version")
	if err != nil {
		result.Status = StatusFail
		result.Message = "installed but version query failed"
		return result
	}

	major, err := parseMajor(version)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("unparseable version %q", version)
		return result
	}

	if major < c.nodeMinMajor {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("%s is too old (need >= v%d)", version, c.nodeMinMajor)
		return result
	}

	result.Status = StatusPass
	result.Message = version
	return result
}

// parseMajor extracts the numeric major version from strings like
// "v20.11.0" or "18.2".
func parseMajor(version string) (int, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	major, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse major version from %q: %w", version, err)
	}
	return major, nil
}
