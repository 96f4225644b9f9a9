package engine

import (
	"context"
	"fmt"
	"os"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/config"
	"shipcheck/internal/facts"
	"shipcheck/internal/inspect"
	"shipcheck/internal/output"
	"shipcheck/internal/product"
)

func exitCodeForRun(fatal, partial, failures bool) int {
	// Exit code contract:
	// 0 = clean run, all checks pass
	// 1 = conformance failures detected
	// 2 = partial failure (inspection tooling errored on some artifacts)
	// 3 = fatal error (validation did not run)
	if fatal {
		return 3
	}
	if partial {
		return 2
	}
	if failures {
		return 1
	}
	return 0
}

// Check IDs owned by per-phase inspectors. The engine stamps Skipped/Error
// onto these when a phase could not produce facts, so the report always
// carries the full catalog shape.
const signatureCheckID = "signature-valid"

var dynamicCheckIDs = map[string]bool{
	"install-binary-executable": true,
	"install-libraries-resolve": true,
}

type Engine struct {
	Inspector *inspect.Inspector
	Signing   *inspect.SigningInspector
	Dynamic   *inspect.DynamicChecker
}

func NewEngine(cfg *config.Config) *Engine {
	runner := &inspect.ExecRunner{Timeout: cfg.Runtime.ToolTimeout}
	toolDirs := append([]string{}, cfg.Signing.ToolDirs...)
	toolDirs = append(toolDirs, inspect.DefaultSigningToolDirs...)
	locator := inspect.NewLocator(toolDirs...)

	return &Engine{
		Inspector: inspect.NewInspector(runner, locator),
		Signing:   inspect.NewSigningInspector(cfg.Signing.Enabled, runner, locator),
		Dynamic:   &inspect.DynamicChecker{Runner: runner, Locator: locator, Image: cfg.Dynamic.Image},
	}
}

func setupOutputManager(cfg *config.Config) (*output.Manager, error) {
	outMgr := output.NewManager()

	if !cfg.Output.NoConsole {
		if err := outMgr.AddSink(output.NewConsoleSink(nil, cfg.Output.ConsoleFormat, cfg.Output.ConsoleFilterStatus)); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	for _, emit := range cfg.Output.Emit {
		es, err := output.NewEmitSink(os.Stdout, emit)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(es); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	if cfg.Output.Out != "" {
		fs, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			outMgr.Close()
			return nil, err
		}
		if err := outMgr.AddSink(fs); err != nil {
			outMgr.Close()
			return nil, err
		}
	}

	return outMgr, nil
}

func formatsPresent(arts []artifact.Artifact) map[artifact.Format]bool {
	present := make(map[artifact.Format]bool)
	for _, a := range arts {
		present[a.Format] = true
	}
	return present
}

func maybeDryRun(cfg *config.Config, arts []artifact.Artifact) (int, bool) {
	if !cfg.Targeting.DryRun {
		return 0, false
	}
	fmt.Println("Resolved artifacts:")
	for _, a := range arts {
		fmt.Printf("%s (%s)\n", a.Path, a.Format)
	}
	return 0, true
}

func (e *Engine) Run(ctx context.Context, cfg *config.Config) int {
	if !cfg.Output.NoConsole {
		fmt.Fprintln(os.Stderr, "Discovering artifacts...")
	}
	arts, err := DiscoverArtifacts(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering artifacts: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Found %d artifacts.\n", len(arts))
		if cfg.Runtime.Verbose {
			for _, a := range arts {
				fmt.Fprintf(os.Stderr, "  %s (%s)\n", a.Path, a.Format)
			}
		}
	}

	if code, ok := maybeDryRun(cfg, arts); ok {
		return code
	}

	present := formatsPresent(arts)

	doc, err := product.Load(cfg.Product.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	exp, err := product.Resolve(doc, present)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false, false)
	}

	// Signing preconditions are verified before any artifact is inspected:
	// a missing verifier is a configuration error, never a per-artifact fact.
	if err := e.Signing.Preflight(present, exp.GPGPublicKeyPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCodeForRun(true, false, false)
	}

	selected, err := checks.Resolve(cfg.Checks.Selector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving checks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	if !cfg.Output.NoConsole {
		fmt.Fprintf(os.Stderr, "Selected %d checks.\n", len(selected))
	}

	outMgr, err := setupOutputManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output sinks: %v\n", err)
		return exitCodeForRun(true, false, false)
	}
	defer outMgr.Close()

	_ = outMgr.Write(output.Event{Type: "run.started", Artifacts: len(arts), Checks: len(selected)})

	runCtx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	reports, err := runArtifacts(runCtx, arts, cfg.Runtime.Concurrency, func(ctx context.Context, art artifact.Artifact) []checks.Result {
		return e.evaluateArtifact(ctx, cfg, art, exp, selected)
	})
	fatal := err != nil
	if fatal {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	var hasFailures, hasErrors bool
	for _, report := range reports {
		_ = outMgr.Write(output.Event{Type: "artifact.started", Artifact: report.Artifact.Path})
		for _, res := range report.Results {
			switch res.Status {
			case checks.StatusFail:
				hasFailures = true
			case checks.StatusError:
				hasErrors = true
			}
			_ = outMgr.Write(res)
		}
		_ = outMgr.Write(output.Event{Type: "artifact.finished", Artifact: report.Artifact.Path})
	}

	code := exitCodeForRun(fatal, hasErrors, hasFailures)
	_ = outMgr.Write(output.Event{Type: "run.finished", ExitCode: code})
	return code
}

// evaluateArtifact runs the full checklist for one artifact: static
// inspection, signature verification, the optional dynamic installability
// phase, then assertion. The external handles are released before any
// assertion runs; checks see only the materialized fact set.
func (e *Engine) evaluateArtifact(ctx context.Context, cfg *config.Config, art artifact.Artifact, exp *product.Expectation, selected []checks.Check) []checks.Result {
	applicable := checks.ForFormat(selected, art.Format)

	fs, err := e.Inspector.Static(ctx, art, exp)
	if err != nil {
		// Facts could not be extracted; every remaining check for this
		// artifact errors rather than spuriously passing or failing.
		results := make([]checks.Result, 0, len(applicable))
		for _, c := range applicable {
			results = append(results, checks.ErrorResult(art, c.ID(), err.Error()))
		}
		return results
	}

	overrides := make(map[string]checks.Result)

	if e.Signing.Enabled && art.Format.Signable() {
		sig, sigErr := e.Signing.Inspect(ctx, art)
		if sigErr != nil {
			overrides[signatureCheckID] = checks.ErrorResult(art, signatureCheckID, sigErr.Error())
		} else {
			fs.Signature = sig
		}
	}

	if dynamicApplies(art.Format) {
		switch {
		case !cfg.Dynamic.Enabled:
			for id := range dynamicCheckIDs {
				overrides[id] = checks.SkippedResult(art, id, "Dynamic installability disabled (static-only mode)")
			}
		default:
			dyn, dynErr := e.Dynamic.Check(ctx, art, exp)
			switch {
			case dynErr != nil:
				for id := range dynamicCheckIDs {
					overrides[id] = checks.ErrorResult(art, id, dynErr.Error())
				}
			case dyn == nil:
				for id := range dynamicCheckIDs {
					overrides[id] = checks.SkippedResult(art, id, "Container runtime unavailable")
				}
			default:
				fs.Dynamic = dyn
			}
		}
	}

	results := make([]checks.Result, 0, len(applicable))
	for _, c := range applicable {
		if res, ok := overrides[c.ID()]; ok {
			results = append(results, res)
			continue
		}
		results = append(results, e.evaluateCheck(c, art, fs, exp))
	}
	return results
}

// evaluateCheck shields the run from a panicking check: one broken check
// must not take down the whole report.
func (e *Engine) evaluateCheck(c checks.Check, art artifact.Artifact, fs *facts.Set, exp *product.Expectation) (res checks.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = checks.ErrorResult(art, c.ID(), fmt.Sprintf("check panicked: %v", r))
		}
	}()
	return c.Evaluate(art, fs, exp)
}

func dynamicApplies(f artifact.Format) bool {
	return f == artifact.FormatRPM || f == artifact.FormatDEB
}
