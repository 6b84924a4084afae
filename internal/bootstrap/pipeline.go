// Package bootstrap runs the s-nomp environment bootstrap pipeline.
//
// The pipeline is strictly linear and fails closed: a stage runs only when
// every stage before it fully succeeded. Nothing is retried; the operator
// fixes the host and re-runs the whole workflow, which is safe to repeat
// from any stage.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poolkit/poolstrap/internal/config"
	"github.com/poolkit/poolstrap/internal/errors"
	"github.com/poolkit/poolstrap/internal/logging"
	"github.com/poolkit/poolstrap/internal/npm"
	"github.com/poolkit/poolstrap/internal/patch"
	"github.com/poolkit/poolstrap/internal/preflight"
	"github.com/poolkit/poolstrap/internal/prompt"
	"github.com/poolkit/poolstrap/internal/ui"
)

// ErrDeclined is returned when the operator declines to proceed on a
// degraded host.
var ErrDeclined = fmt.Errorf("operator declined to continue")

// Pipeline wires the bootstrap stages for one project root.
type Pipeline struct {
	root      string
	cfg       *config.Config
	out       *ui.Writer
	log       *slog.Logger
	in        io.Reader
	assumeYes bool
	skipCheck bool

	// Stage seams, overridable for tests.
	runChecks  func(ctx context.Context) []preflight.CheckResult
	install    func(ctx context.Context) error
	rebuild    func(ctx context.Context, pkg string) error
	applyPatch func(target patch.Target) (patch.Outcome, error)

	checker *preflight.Checker
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput sets the terminal writer.
func WithOutput(out *ui.Writer) Option {
	return func(p *Pipeline) {
		p.out = out
	}
}

// WithLogger sets the debug logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithInput sets the reader used for the degraded-host confirmation.
func WithInput(in io.Reader) Option {
	return func(p *Pipeline) {
		p.in = in
	}
}

// WithAssumeYes proceeds on a degraded host without prompting.
func WithAssumeYes(yes bool) Option {
	return func(p *Pipeline) {
		p.assumeYes = yes
	}
}

// WithSkipCheck skips the preflight stage entirely.
func WithSkipCheck(skip bool) Option {
	return func(p *Pipeline) {
		p.skipCheck = skip
	}
}

// WithCheckRunner overrides the preflight stage, for tests.
func WithCheckRunner(fn func(ctx context.Context) []preflight.CheckResult) Option {
	return func(p *Pipeline) {
		p.runChecks = fn
	}
}

// WithInstaller overrides the install stage, for tests.
func WithInstaller(fn func(ctx context.Context) error) Option {
	return func(p *Pipeline) {
		p.install = fn
	}
}

// WithRebuilder overrides the native build stage, for tests.
func WithRebuilder(fn func(ctx context.Context, pkg string) error) Option {
	return func(p *Pipeline) {
		p.rebuild = fn
	}
}

// WithPatcher overrides the patch stage, for tests.
func WithPatcher(fn func(target patch.Target) (patch.Outcome, error)) Option {
	return func(p *Pipeline) {
		p.applyPatch = fn
	}
}

// New creates a Pipeline for the project at root.
func New(root string, cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		root:       root,
		cfg:        cfg,
		out:        ui.New(os.Stdout, false),
		log:        logging.Discard(),
		in:         os.Stdin,
		applyPatch: patch.Apply,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.runChecks == nil {
		p.checker = preflight.New(
			preflight.WithOutput(io.Discard),
			preflight.WithNodeMinMajor(cfg.Node.MinMajor),
			preflight.WithRedisAddr(cfg.Redis.Addr),
		)
		p.runChecks = p.checker.RunAll
	}
	if p.install == nil || p.rebuild == nil {
		client := npm.NewClient(root,
			npm.WithNpmBin(cfg.Install.NpmBin),
			npm.WithGypBin(cfg.Install.GypBin),
		)
		if p.install == nil {
			p.install = client.Install
		}
		if p.rebuild == nil {
			p.rebuild = client.Rebuild
		}
	}
	return p
}

// Run executes the full bootstrap pipeline.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.runPreflight(ctx); err != nil {
		return err
	}
	if err := p.runInstall(ctx); err != nil {
		return err
	}
	if err := p.runRebuilds(ctx); err != nil {
		return err
	}
	if err := p.runPatch(); err != nil {
		return err
	}
	p.report()
	return nil
}

func (p *Pipeline) runPreflight(ctx context.Context) error {
	if p.skipCheck {
		p.out.Header("Preflight (skipped)")
		p.log.Warn("preflight skipped by flag")
		return nil
	}

	p.out.Header("Preflight")
	results := p.runChecks(ctx)
	for _, r := range results {
		p.log.Debug("check", "name", r.Name, "status", r.Status.String(), "message", r.Message)
		switch {
		case r.Status == preflight.StatusPass:
			p.out.Successf("%s: %s", r.Name, r.Message)
		case r.Required:
			p.out.Errorf("%s: %s", r.Name, r.Message)
			if r.Remedy != "" {
				p.out.Code(r.Remedy)
			}
		default:
			p.out.Warningf("%s: %s", r.Name, r.Message)
			if r.Remedy != "" {
				p.out.Code(r.Remedy)
			}
		}
	}

	switch preflight.Aggregate(results) {
	case preflight.Blocked:
		return errors.Environment("critical preflight checks failed", nil).
			WithSuggestion("apply the fixes above and re-run poolstrap")
	case preflight.Degraded:
		if p.assumeYes {
			p.out.Warning("optional dependencies missing, continuing (--yes)")
			return nil
		}
		ok, err := prompt.Confirm(p.out.Raw(), p.in, "Optional dependencies are missing. Continue anyway?")
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !ok {
			return ErrDeclined
		}
	}
	return nil
}

func (p *Pipeline) runInstall(ctx context.Context) error {
	p.out.Header("Installing dependencies")
	p.log.Info("npm install", "root", p.root)
	if err := p.install(ctx); err != nil {
		return err
	}
	p.out.Success("dependencies installed")
	return nil
}

func (p *Pipeline) runRebuilds(ctx context.Context) error {
	p.out.Header("Rebuilding native modules")
	for _, pkg := range p.cfg.Install.NativePackages {
		p.out.Statusf("rebuilding %s", pkg)
		p.log.Info("node-gyp rebuild", "package", pkg)
		if err := p.rebuild(ctx, pkg); err != nil {
			return err
		}
		p.out.Successf("%s rebuilt", pkg)
	}
	return nil
}

func (p *Pipeline) runPatch() error {
	p.out.Header("Patching stratum-pool for lazy verushash loading")
	target := patch.NewTarget(p.root, p.cfg.Patch.File, p.cfg.Patch.Marker)
	outcome, err := p.applyPatch(target)
	if err != nil {
		return err
	}
	p.log.Info("patch", "outcome", outcome.String(), "target", target.Path)
	p.out.Successf("%s: %s", p.cfg.Patch.File, outcome)
	return nil
}

func (p *Pipeline) report() {
	p.out.Header("Done")
	p.out.Status("next steps:")
	p.out.Code("cp config_example.json config.json\n" +
		"cp pool_configs/examples/litecoin.json pool_configs/\n" +
		"# edit config.json and your pool config, then:\n" +
		"pm2 start init.js --name s-nomp")
}
