package npm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poolkit/poolstrap/internal/errors"
)

// Client drives dependency installation and native rebuilds for a project.
type Client struct {
	root   string
	npmBin string
	gypBin string
	runner Runner
}

// Option configures a Client.
type Option func(*Client)

// WithNpmBin overrides the npm executable name.
func WithNpmBin(bin string) Option {
	return func(c *Client) {
		c.npmBin = bin
	}
}

// WithGypBin overrides the node-gyp executable name.
func WithGypBin(bin string) Option {
	return func(c *Client) {
		c.gypBin = bin
	}
}

// WithRunner overrides command execution, for tests.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// NewClient creates a Client for the project at root.
func NewClient(root string, opts ...Option) *Client {
	c := &Client{
		root:   root,
		npmBin: "npm",
		gypBin: "node-gyp",
		runner: &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Install materializes package.json dependencies at the project root.
// --ignore-scripts suppresses every package's own install hooks: the native
// add-ons are rebuilt explicitly afterwards, and the optional verushash
// package must not get a chance to fail the whole install.
// --legacy-peer-deps relaxes peer version enforcement, which the aging
// s-nomp dependency tree cannot satisfy strictly.
func (c *Client) Install(ctx context.Context) error {
	err := c.runner.Run(ctx, c.root, c.npmBin, "install", "--legacy-peer-deps", "--ignore-scripts")
	if err != nil {
		return errors.External("npm install failed", err).
			WithSuggestion("inspect the npm output above, fix the cause, and re-run poolstrap")
	}
	return nil
}

// Rebuild runs node-gyp rebuild for one installed native package.
// A missing package directory is a distinct error from a failed build.
func (c *Client) Rebuild(ctx context.Context, pkg string) error {
	dir := filepath.Join(c.root, "node_modules", pkg)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Precondition(fmt.Sprintf("%s not found in dependencies (%s)", pkg, dir), err).
			WithSuggestion("run the install stage first, or check package.json lists " + pkg)
	}

	if err := c.runner.Run(ctx, dir, c.gypBin, "rebuild"); err != nil {
		return errors.External(fmt.Sprintf("node-gyp rebuild failed for %s", pkg), err).
			WithSuggestion("check the compiler output above; the pool cannot start without " + pkg)
	}
	return nil
}
