package catalog

import (
	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type PayloadBinaryPresentCheck struct{}

func (c *PayloadBinaryPresentCheck) ID() string {
	return "payload-binary-present"
}

func (c *PayloadBinaryPresentCheck) Title() string {
	return "Primary Executable Present in Package Manifest"
}

func (c *PayloadBinaryPresentCheck) Description() string {
	return "Verifies that the package's file manifest contains the product's primary executable at its expected installed path."
}

func (c *PayloadBinaryPresentCheck) Formats() []artifact.Format {
	return manifestFormats()
}

func (c *PayloadBinaryPresentCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Manifest == nil {
		return checks.ErrorResult(art, c.ID(), "No manifest facts extracted")
	}

	want := exp.LinuxBinaryPath
	for _, p := range fs.Manifest.FilePaths {
		if p == want {
			return checks.PassResultWithMessage(art, c.ID(), "Manifest contains "+want)
		}
	}
	return checks.FailResultWithEvidence(art, c.ID(),
		"Manifest does not contain expected primary executable "+want,
		fs.Manifest.FilePaths)
}

func init() {
	checks.Register(&PayloadBinaryPresentCheck{})
}
