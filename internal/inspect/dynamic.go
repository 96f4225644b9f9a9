package inspect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// DynamicChecker installs an artifact inside an ephemeral container matching
// its target OS and probes the resulting binary. The artifact directory is
// mounted read-only for the container's lifetime and released unconditionally
// on exit (--rm).
type DynamicChecker struct {
	Runner  Runner
	Locator *Locator
	Image   string
}

// DefaultImage is the isolated-environment image used when none is selected.
const DefaultImage = "ubuntu:24.04"

// Sentinel lines the in-container probe script prints so the checker can
// attribute each step's outcome without parsing tool output.
const (
	sentinelInstalled  = "SHIPCHECK_INSTALL_OK"
	sentinelExecutable = "SHIPCHECK_EXEC_OK"
	sentinelMissingLib = "SHIPCHECK_MISSING_LIB "
)

func (d *DynamicChecker) Check(ctx context.Context, art artifact.Artifact, exp *product.Expectation) (*facts.DynamicFacts, error) {
	// An absent container runtime means the capability is unavailable and the
	// phase's checks record Skipped; a present runtime that fails to
	// provision is an inspection failure.
	runtime, ok := d.Locator.Locate("docker")
	if !ok {
		runtime, ok = d.Locator.Locate("podman")
	}
	if !ok {
		return nil, nil
	}

	script, err := probeScript(art, exp)
	if err != nil {
		return nil, &ToolError{Format: art.Format, Tool: "container runtime", ExitCode: -1, Detail: err.Error()}
	}

	image := d.Image
	if image == "" {
		image = DefaultImage
	}

	dir, err := filepath.Abs(filepath.Dir(art.Path))
	if err != nil {
		return nil, &ToolError{Format: art.Format, Tool: "container runtime", ExitCode: -1, Detail: err.Error()}
	}

	inv := d.Runner.Run(ctx, runtime,
		"run", "--rm",
		"-v", dir+":/artifacts:ro",
		image,
		"/bin/sh", "-c", script,
	)
	if inv.Err != nil && inv.ExitCode < 0 {
		return nil, &ToolError{Format: art.Format, Tool: "container runtime", ExitCode: inv.ExitCode, Detail: firstLine(inv.Stderr)}
	}

	df := &facts.DynamicFacts{}
	for _, line := range strings.Split(inv.Stdout, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == sentinelInstalled:
			df.Installed = true
		case line == sentinelExecutable:
			df.BinaryExecutable = true
		case strings.HasPrefix(line, sentinelMissingLib):
			df.MissingLibraries = append(df.MissingLibraries, strings.TrimPrefix(line, sentinelMissingLib))
		case line != "":
			df.Log = append(df.Log, line)
		}
	}
	return df, nil
}

// probeScript builds the in-container install + probe script. The script
// always exits 0 once it runs; step outcomes travel as sentinel lines so an
// install failure is a recorded fact, not a provisioning error.
func probeScript(art artifact.Artifact, exp *product.Expectation) (string, error) {
	name := filepath.Base(art.Path)
	var install string
	switch art.Format {
	case artifact.FormatRPM:
		install = fmt.Sprintf("rpm -i --nodeps %q", "/artifacts/"+name)
	case artifact.FormatDEB:
		install = fmt.Sprintf("(apt-get update >/dev/null 2>&1; apt-get install -y %q >/dev/null 2>&1) || dpkg -i --force-depends %q >/dev/null 2>&1", "/artifacts/"+name, "/artifacts/"+name)
	default:
		return "", fmt.Errorf("dynamic installability has no install recipe for %s artifacts", art.Format)
	}

	bin := exp.LinuxBinaryPath
	return strings.Join([]string{
		fmt.Sprintf("if %s; then echo %s; fi", install, sentinelInstalled),
		fmt.Sprintf("if [ -x %q ]; then echo %s; fi", bin, sentinelExecutable),
		fmt.Sprintf(`ldd %q 2>/dev/null | grep "not found" | awk '{print "%s" $1}'`, bin, sentinelMissingLib),
		"exit 0",
	}, "\n"), nil
}
