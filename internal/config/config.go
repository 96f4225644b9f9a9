package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"shipcheck/internal/artifact"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// verify behavior, keep the CLI flags in internal/cli/verify.go in sync.
	Targeting Targeting
	Product   Product
	Checks    Checks
	Signing   Signing
	Dynamic   Dynamic
	Output    Output
	Runtime   Runtime
}

type Targeting struct {
	// Artifacts is an explicit list of artifact files, directories, or glob
	// patterns (see --artifacts). Directories given here are scanned
	// non-recursively. Empty means the default search roots are used.
	Artifacts []string

	// Formats restricts the run to the named formats (see --formats).
	// Values: rpm, deb, appimage, msi, nsis. Empty means all formats.
	Formats []string

	// Include filters artifact file names using Go path.Match style
	// (see --include).
	Include []string

	// Exclude filters artifact file names using Go path.Match style
	// (see --exclude).
	Exclude []string

	// SearchRoots overrides the default search roots scanned recursively
	// when no explicit artifacts are given (see --search-roots).
	SearchRoots []string

	// DryRun resolves the artifact set and prints it without inspecting
	// (see --dry-run).
	DryRun bool
}

type Product struct {
	// ConfigPath is the canonical product configuration document
	// (see --product-config).
	ConfigPath string
}

type Checks struct {
	// Selector selects which checks to run.
	// Empty means all checks; otherwise a comma-separated ID list (see --checks).
	Selector string
}

type Signing struct {
	// Enabled mirrors the ambient signing configuration (SHIPCHECK_SIGN).
	// It is resolved once at startup; inspectors never read the environment.
	Enabled bool

	// ToolDirs are extra well-known locations searched for the signature
	// verification tool when it is not on PATH.
	ToolDirs []string
}

type Dynamic struct {
	// Enabled runs the dynamic installability phase (disabled by --static-only).
	Enabled bool

	// Image is the isolated-environment image/tag (see --image).
	Image string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format
	// (see --console-format). Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterStatus filters console output by result status
	// (see --console-filter-status). Allowed values: PASS, FAIL, SKIPPED, ERROR.
	ConsoleFilterStatus []string

	// Out writes structured output to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, inferred from the extension.
	OutFormat string

	// Emit writes an additional structured event stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Concurrency controls parallelism for artifact processing (see --concurrency).
	// Must be >= 1. The final report order is deterministic regardless.
	Concurrency int

	// Timeout is the global timeout for the run (see --timeout). Must be > 0.
	Timeout time.Duration

	// ToolTimeout bounds each external tool invocation (see --tool-timeout).
	// Must be > 0. Expiry is treated as an inspection tool failure.
	ToolTimeout time.Duration

	// Verbose enables more detailed diagnostics.
	Verbose bool
}

// DefaultSearchRoots are scanned recursively, per format extension, when no
// explicit artifact paths are given.
var DefaultSearchRoots = []string{"dist", "out/make"}

func New() *Config {
	return &Config{
		Product: Product{
			ConfigPath: "product.json",
		},
		Dynamic: Dynamic{
			Enabled: true,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Concurrency: 4,
			Timeout:     30 * time.Minute,
			ToolTimeout: 5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Targeting.Artifacts = splitCommaList(c.Targeting.Artifacts)
	c.Targeting.Formats = splitCommaList(c.Targeting.Formats)
	c.Targeting.Include = splitCommaList(c.Targeting.Include)
	c.Targeting.Exclude = splitCommaList(c.Targeting.Exclude)
	c.Targeting.SearchRoots = splitCommaList(c.Targeting.SearchRoots)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)
	c.Output.Emit = splitCommaList(c.Output.Emit)

	for _, f := range c.Targeting.Formats {
		if _, ok := artifact.ParseFormat(f); !ok {
			return fmt.Errorf("unsupported --formats value: %s (must be one of: rpm, deb, appimage, msi, nsis)", f)
		}
	}

	if strings.TrimSpace(c.Product.ConfigPath) == "" {
		return errors.New("--product-config must not be empty")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for _, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", emit)
		}
	}

	if c.Output.Out != "" && c.Output.OutFormat == "" {
		ext := strings.ToLower(filepath.Ext(c.Output.Out))
		switch ext {
		case ".json":
			c.Output.OutFormat = "json"
		case ".ndjson", ".jsonl":
			c.Output.OutFormat = "ndjson"
		default:
			return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
		}
	}

	// Runtime validation
	if c.Runtime.Concurrency <= 0 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Runtime.ToolTimeout <= 0 {
		return errors.New("--tool-timeout must be > 0")
	}

	return nil
}

// FormatsEnabled returns the set of formats this run covers.
func (c *Config) FormatsEnabled() map[artifact.Format]bool {
	enabled := make(map[artifact.Format]bool)
	if len(c.Targeting.Formats) == 0 {
		for _, f := range artifact.Formats() {
			enabled[f] = true
		}
		return enabled
	}
	for _, name := range c.Targeting.Formats {
		if f, ok := artifact.ParseFormat(name); ok {
			enabled[f] = true
		}
	}
	return enabled
}

// SearchRoots returns the configured or default search roots.
func (c *Config) SearchRoots() []string {
	if len(c.Targeting.SearchRoots) > 0 {
		return c.Targeting.SearchRoots
	}
	return DefaultSearchRoots
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func normalizeEnumValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
