package preflight

import (
	"context"
	"fmt"
	"strings"
)

// Library header locations probed for the optional hashing dependencies.
var (
	libsodiumHeaders = []string{
		"/usr/include/sodium.h",
		"/usr/local/include/sodium.h",
		"/opt/homebrew/include/sodium.h",
	}
	boostHeaders = []string{
		"/usr/include/boost/version.hpp",
		"/usr/local/include/boost/version.hpp",
		"/opt/homebrew/include/boost/version.hpp",
	}
)

// CheckNpm checks for the npm package manager.
func (c *Checker) CheckNpm(ctx context.Context) CheckResult {
	return c.checkVersionedTool(ctx, "npm", true,
		"npm ships with Node.js; install Node.js 20 or newer")
}

// CheckCompiler checks for a build toolchain executable.
func (c *Checker) CheckCompiler(ctx context.Context, bin, remedy string) CheckResult {
	return c.checkVersionedTool(ctx, bin, true, remedy)
}

// CheckPM2 checks for the optional pm2 process manager.
func (c *Checker) CheckPM2(ctx context.Context) CheckResult {
	return c.checkVersionedTool(ctx, "pm2", false, "npm install -g pm2")
}

// CheckLibsodium checks for libsodium development headers.
func (c *Checker) CheckLibsodium() CheckResult {
	return c.checkHeaders("libsodium", libsodiumHeaders, "sudo apt-get install libsodium-dev")
}

// CheckBoost checks for boost development headers.
func (c *Checker) CheckBoost() CheckResult {
	return c.checkHeaders("boost", boostHeaders, "sudo apt-get install libboost-all-dev")
}

// checkVersionedTool looks up bin on PATH and records its --version output.
func (c *Checker) checkVersionedTool(ctx context.Context, bin string, required bool, remedy string) CheckResult {
	result := CheckResult{
		Name:     bin,
		Required: required,
		Remedy:   remedy,
	}

	path, err := c.lookPath(bin)
	if err != nil {
		result.Status = StatusFail
		result.Message = "not installed"
		return result
	}

	result.Status = StatusPass
	result.Message = "installed"
	result.Details = path

	version, err := c.runVersion(ctx, bin, "--version")
	if err == nil && version != "" {
		result.Message = version
	}
	return result
}

// checkHeaders passes when any of the known header locations exists.
func (c *Checker) checkHeaders(name string, headers []string, remedy string) CheckResult {
	result := CheckResult{
		Name:     name,
		Required: false,
		Remedy:   remedy,
	}

	for _, h := range headers {
		if c.fileExists(h) {
			result.Status = StatusPass
			result.Message = "headers found"
			result.Details = h
			return result
		}
	}

	result.Status = StatusFail
	result.Message = fmt.Sprintf("development headers not found (some hashing algorithms need %s)", name)
	return result
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
