// Package flags defines canonical CLI flag names shared across the CLI and
// engine. Keeping these as constants avoids drift between Cobra flag wiring
// and other code paths that reference flags.
// IMPORTANT: These are flag *names* without leading dashes.
package flags
const (
	// Targeting
	FlagArtifacts   = "artifacts"
	FlagFormats     = "formats"
	FlagInclude     = "include"
	FlagExclude     = "exclude"
	FlagSearchRoots = "search-roots"
	FlagDryRun      = "dry-run"

	// Product
	FlagProductConfig = "product-config"

	// Checks
	FlagChecks = "checks"

	// Dynamic installability
	FlagStaticOnly = "static-only"
	FlagImage      = "image"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagTimeout     = "timeout"
	FlagToolTimeout = "tool-timeout"
)
