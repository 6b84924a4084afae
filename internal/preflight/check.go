package preflight

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusFail indicates the check failed.
	StatusFail
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the status as its lowercase name.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", strings.ToLower(s.String()))), nil
}

// UnmarshalJSON parses the lowercase name form produced by MarshalJSON.
func (s *CheckStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "pass":
		*s = StatusPass
	case "fail":
		*s = StatusFail
	default:
		return fmt.Errorf("unknown check status %q", name)
	}
	return nil
}

// Readiness is the aggregate host classification over all check results.
type Readiness int

const (
	// Ready means every check passed.
	Ready Readiness = iota
	// Degraded means all critical checks passed but at least one optional
	// check failed; the operator must confirm before proceeding.
	Degraded
	// Blocked means at least one critical check failed.
	Blocked
)

// String returns the string representation of a Readiness value.
func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Remedy   string      `json:"remedy,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Checker performs host environment checks for an s-nomp install.
type Checker struct {
	verbose bool
	output  io.Writer

	nodeMinMajor int
	redisAddr    string
	pingTimeout  time.Duration

	// For testing: override process and filesystem access.
	lookPath   func(file string) (string, error)
	runVersion func(ctx context.Context, bin string, args ...string) (string, error)
	fileExists func(path string) bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithNodeMinMajor sets the minimum accepted Node.js major version.
func WithNodeMinMajor(major int) Option {
	return func(c *Checker) {
		c.nodeMinMajor = major
	}
}

// WithRedisAddr sets the redis address used by the liveness probe.
func WithRedisAddr(addr string) Option {
	return func(c *Checker) {
		c.redisAddr = addr
	}
}

// WithLookPath overrides executable lookup, for tests.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(c *Checker) {
		c.lookPath = fn
	}
}

// WithVersionRunner overrides version-query execution, for tests.
func WithVersionRunner(fn func(ctx context.Context, bin string, args ...string) (string, error)) Option {
	return func(c *Checker) {
		c.runVersion = fn
	}
}

// WithFileExists overrides filesystem probing, for tests.
func WithFileExists(fn func(path string) bool) Option {
	return func(c *Checker) {
		c.fileExists = fn
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		output:       os.Stdout,
		nodeMinMajor: 20,
		redisAddr:    "localhost:6379",
		pingTimeout:  500 * time.Millisecond,
		lookPath:     exec.LookPath,
		runVersion:   runVersionCommand,
		fileExists:   fileExists,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunAll runs every host check in order and returns one result per check.
// The readiness decision is made only over the full result set.
func (c *Checker) RunAll(ctx context.Context) []CheckResult {
	return []CheckResult{
		c.CheckNode(ctx),
		c.CheckNpm(ctx),
		c.CheckRedis(ctx),
		c.CheckCompiler(ctx, "gcc", "sudo apt-get install build-essential"),
		c.CheckCompiler(ctx, "g++", "sudo apt-get install build-essential"),
		c.CheckCompiler(ctx, "make", "sudo apt-get install build-essential"),
		c.CheckCompiler(ctx, "python3", "sudo apt-get install python3"),
		c.CheckLibsodium(),
		c.CheckBoost(),
		c.CheckPM2(ctx),
	}
}

// Aggregate derives the host readiness from a full result set.
func Aggregate(results []CheckResult) Readiness {
	degraded := false
	for _, r := range results {
		if r.Status != StatusFail {
			continue
		}
		if r.Required {
			return Blocked
		}
		degraded = true
	}
	if degraded {
		return Degraded
	}
	return Ready
}

// HasCriticalFailures returns true if any required check failed.
func HasCriticalFailures(results []CheckResult) bool {
	return Aggregate(results) == Blocked
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "      %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	readiness := Aggregate(results)
	_, _ = fmt.Fprintf(c.output, "Host: %s\n", readiness)

	var blockers, warnings []CheckResult
	for _, r := range results {
		if r.IsCritical() {
			blockers = append(blockers, r)
		} else if r.Status == StatusFail {
			warnings = append(warnings, r)
		}
	}

	if len(blockers) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d blocking issue(s):\n", len(blockers))
		for _, r := range blockers {
			_, _ = fmt.Fprintf(c.output, "  - %s: %s\n", r.Name, r.Message)
			if r.Remedy != "" {
				_, _ = fmt.Fprintf(c.output, "    fix: %s\n", r.Remedy)
			}
		}
	}

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d warning(s):\n", len(warnings))
		for _, r := range warnings {
			_, _ = fmt.Fprintf(c.output, "  - %s: %s\n", r.Name, r.Message)
			if r.Remedy != "" {
				_, _ = fmt.Fprintf(c.output, "    fix: %s\n", r.Remedy)
			}
		}
	}
}

// runVersionCommand runs `bin args...` and returns the first line of output.
func runVersionCommand(ctx context.Context, bin string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s %v: %w", bin, args, err)
	}
	return firstLine(string(out)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
