package catalog

import (
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type InstallLibrariesResolveCheck struct{}

func (c *InstallLibrariesResolveCheck) ID() string {
	return "install-libraries-resolve"
}

func (c *InstallLibrariesResolveCheck) Title() string {
	return "Installed Binary's Dynamic Libraries Resolve"
}

func (c *InstallLibrariesResolveCheck) Description() string {
	return "After installing the artifact in an ephemeral isolated environment, verifies that dynamic-library resolution reports no missing dependencies for the primary executable. Skipped in static-only mode or when no container runtime is available."
}

func (c *InstallLibrariesResolveCheck) Formats() []artifact.Format {
	return dynamicFormats()
}

func (c *InstallLibrariesResolveCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Dynamic == nil {
		return checks.SkippedResult(art, c.ID(), "Dynamic installability phase not run")
	}

	dyn := fs.Dynamic
	if !dyn.Installed {
		return checks.FailResultWithEvidence(art, c.ID(), "Artifact did not install in the isolated environment", dyn.Log)
	}
	if len(dyn.MissingLibraries) > 0 {
		return checks.FailResultWithEvidence(art, c.ID(),
			"Unresolved dynamic libraries: "+strings.Join(dyn.MissingLibraries, ", "),
			dyn.MissingLibraries)
	}
	return checks.PassResultWithMessage(art, c.ID(), "All dynamic libraries resolve")
}

func init() {
	checks.Register(&InstallLibrariesResolveCheck{})
}
