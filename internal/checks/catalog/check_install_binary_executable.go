package catalog

import (
	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type InstallBinaryExecutableCheck struct{}

func (c *InstallBinaryExecutableCheck) ID() string {
	return "install-binary-executable"
}

func (c *InstallBinaryExecutableCheck) Title() string {
	return "Installed Binary Is Executable"
}

func (c *InstallBinaryExecutableCheck) Description() string {
	return "Installs the artifact inside an ephemeral isolated environment and verifies the primary executable exists and carries the executable bit. Skipped in static-only mode or when no container runtime is available."
}

func (c *InstallBinaryExecutableCheck) Formats() []artifact.Format {
	return dynamicFormats()
}

func (c *InstallBinaryExecutableCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Dynamic == nil {
		return checks.SkippedResult(art, c.ID(), "Dynamic installability phase not run")
	}

	dyn := fs.Dynamic
	if !dyn.Installed {
		return checks.FailResultWithEvidence(art, c.ID(), "Artifact did not install in the isolated environment", dyn.Log)
	}
	if !dyn.BinaryExecutable {
		return checks.FailResultWithEvidence(art, c.ID(),
			"Installed but "+exp.LinuxBinaryPath+" is missing or not executable", dyn.Log)
	}
	return checks.PassResultWithMessage(art, c.ID(), exp.LinuxBinaryPath+" installed and executable")
}

func init() {
	checks.Register(&InstallBinaryExecutableCheck{})
}
