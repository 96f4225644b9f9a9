package cli

import (
	"testing"
	"time"

	"shipcheck/internal/flags"
)

func TestVerifyFlagDefaults(t *testing.T) {
	fs := verifyCmd.Flags()

	for _, name := range []string{
		flags.FlagArtifacts,
		flags.FlagFormats,
		flags.FlagInclude,
		flags.FlagExclude,
		flags.FlagSearchRoots,
		flags.FlagDryRun,
		flags.FlagProductConfig,
		flags.FlagChecks,
		flags.FlagStaticOnly,
		flags.FlagImage,
		flags.FlagConsoleFormat,
		flags.FlagConsoleFilterStatus,
		flags.FlagOut,
		flags.FlagOutFormat,
		flags.FlagEmit,
		flags.FlagNoConsole,
		flags.FlagConcurrency,
		flags.FlagTimeout,
		flags.FlagToolTimeout,
	} {
		if fs.Lookup(name) == nil {
			t.Errorf("verify command is missing flag --%s", name)
		}
	}

	if got := fs.Lookup(flags.FlagProductConfig).DefValue; got != "product.json" {
		t.Errorf("--%s default = %q, want product.json", flags.FlagProductConfig, got)
	}
	if got := fs.Lookup(flags.FlagConsoleFormat).DefValue; got != "text" {
		t.Errorf("--%s default = %q, want text", flags.FlagConsoleFormat, got)
	}
	if got := fs.Lookup(flags.FlagStaticOnly).DefValue; got != "false" {
		t.Errorf("--%s default = %q, want false", flags.FlagStaticOnly, got)
	}
}

func TestConfigDefaultsBehindVerify(t *testing.T) {
	if cfg.Runtime.Concurrency < 1 {
		t.Errorf("Concurrency default = %d, want >= 1", cfg.Runtime.Concurrency)
	}
	if cfg.Runtime.Timeout <= 0 || cfg.Runtime.ToolTimeout <= 0 {
		t.Errorf("timeout defaults = %v, %v, want > 0", cfg.Runtime.Timeout, cfg.Runtime.ToolTimeout)
	}
	if cfg.Runtime.ToolTimeout != 5*time.Minute {
		t.Errorf("ToolTimeout default = %v, want 5m", cfg.Runtime.ToolTimeout)
	}
	if !cfg.Dynamic.Enabled {
		t.Error("dynamic phase should default to enabled")
	}
}
