package cli

import (
	"context"
	"fmt"
	"os"

	"shipcheck/internal/config"
	"shipcheck/internal/engine"
	"shipcheck/internal/flags"
	"shipcheck/internal/inspect"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate built installer artifacts",
	Long: `Validate built installer artifacts against the canonical product
configuration.

Artifacts are discovered from --artifacts (files, directories, or glob
patterns; directories are scanned non-recursively) or, if omitted, from the
default search roots (scanned recursively). Each artifact is inspected with
its format's native query tooling and checked against the product
configuration. A run validates every artifact and every check before
reporting, so a single report captures all problems in one pass.

Signing:
	Signature checks run when signing is configured via the SHIPCHECK_SIGN
	environment variable. Linux packages are verified against the release GPG
	public key named in the product configuration; Windows installers are
	verified with the Authenticode tool, searched for on PATH and in
	well-known installation locations. If signing is configured and the
	verifier cannot be located, the run fails before inspecting anything.

Dynamic installability:
	RPM and DEB artifacts are additionally installed inside an ephemeral
	container and the resulting binary is probed. Disable the phase with
	--static-only; select the environment image with --image.

Exit codes:
	0 = clean run, all checks pass
	1 = conformance failures detected
	2 = partial failure (inspection tooling errored on some artifacts)
	3 = fatal error (validation did not run)

Examples:
  # Validate everything under the default search roots
  shipcheck verify --product-config product.json

  # Validate explicit artifacts, static checks only
  shipcheck verify --artifacts 'dist/*.rpm,dist/*.deb' --static-only

  # Stream machine-readable events to stdout
  shipcheck verify --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg.Dynamic.Enabled = !staticOnly
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		// Ambient signing configuration is resolved once, here; the engine
		// and inspectors never read the environment themselves.
		cfg.Signing.Enabled = inspect.SigningConfiguredFromEnv(os.Getenv)

		eng := engine.NewEngine(cfg)
		os.Exit(eng.Run(context.Background(), cfg))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Targeting
	verifyCmd.Flags().StringSliceVar(&cfg.Targeting.Artifacts, flags.FlagArtifacts, nil, "Artifact files, directories, or glob patterns (repeatable; comma-separated accepted)")
	verifyCmd.Flags().StringSliceVar(&cfg.Targeting.Formats, flags.FlagFormats, nil, "Restrict the run to formats: rpm|deb|appimage|msi|nsis (repeatable; comma-separated accepted)")
	verifyCmd.Flags().StringSliceVar(&cfg.Targeting.Include, flags.FlagInclude, nil, "Include pattern(s) on artifact file names, Go path.Match style (repeatable; comma-separated accepted)")
	verifyCmd.Flags().StringSliceVar(&cfg.Targeting.Exclude, flags.FlagExclude, nil, "Exclude pattern(s) on artifact file names, same matching rules as --include")
	verifyCmd.Flags().StringSliceVar(&cfg.Targeting.SearchRoots, flags.FlagSearchRoots, nil, "Override the default search roots scanned when --artifacts is omitted")
	verifyCmd.Flags().BoolVar(&cfg.Targeting.DryRun, flags.FlagDryRun, false, "Resolve the artifact set and print it without inspecting")

	// Product
	verifyCmd.Flags().StringVar(&cfg.Product.ConfigPath, flags.FlagProductConfig, cfg.Product.ConfigPath, "Canonical product configuration document (JSON or YAML)")

	// Checks
	verifyCmd.Flags().StringVar(&cfg.Checks.Selector, flags.FlagChecks, "", "Comma-separated check IDs to run (empty = all checks)")

	// Dynamic installability
	verifyCmd.Flags().BoolVar(&staticOnly, flags.FlagStaticOnly, false, "Disable the dynamic installability phase")
	verifyCmd.Flags().StringVar(&cfg.Dynamic.Image, flags.FlagImage, "", "Isolated-environment image/tag for the dynamic installability phase (default: "+inspect.DefaultImage+")")

	// Output
	verifyCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	verifyCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console output by status (PASS, FAIL, SKIPPED, ERROR). Comma-separated.")
	verifyCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	verifyCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	verifyCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	verifyCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out)")

	// Runtime
	verifyCmd.Flags().IntVar(&cfg.Runtime.Concurrency, flags.FlagConcurrency, cfg.Runtime.Concurrency, "Concurrent artifact workers")
	verifyCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout for the run")
	verifyCmd.Flags().DurationVar(&cfg.Runtime.ToolTimeout, flags.FlagToolTimeout, cfg.Runtime.ToolTimeout, "Timeout per external tool invocation")
}

var staticOnly bool
