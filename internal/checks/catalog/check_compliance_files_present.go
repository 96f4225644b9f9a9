package catalog

import (
	"path"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type ComplianceFilesPresentCheck struct{}

func (c *ComplianceFilesPresentCheck) ID() string {
	return "compliance-files-present"
}

func (c *ComplianceFilesPresentCheck) Title() string {
	return "Required Compliance Files Ship Inside the Package"
}

func (c *ComplianceFilesPresentCheck) Description() string {
	return "Verifies that every required legal/attribution file (license, notice) is present: in the file manifest for manifest-based formats, or in the extracted installer payload for binary installers. Matched by file name, not content."
}

func (c *ComplianceFilesPresentCheck) Formats() []artifact.Format {
	return append(manifestFormats(), artifact.FormatNSISExe)
}

func (c *ComplianceFilesPresentCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil {
		return checks.ErrorResult(art, c.ID(), "No facts extracted")
	}

	var names []string
	switch {
	case art.Format.ManifestBased():
		if fs.Manifest == nil {
			return checks.ErrorResult(art, c.ID(), "No manifest facts extracted")
		}
		names = fs.Manifest.FilePaths
	default:
		if fs.Payload == nil {
			return checks.SkippedResult(art, c.ID(), "Payload extraction capability unavailable")
		}
		names = fs.Payload.Names
	}

	var missing []string
	for _, want := range exp.ComplianceFiles {
		if !containsBaseName(names, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return checks.FailResultWithEvidence(art, c.ID(),
			"Missing compliance files: "+strings.Join(missing, ", "),
			names)
	}
	return checks.PassResultWithMessage(art, c.ID(), "All compliance files present ("+strings.Join(exp.ComplianceFiles, ", ")+")")
}

func containsBaseName(paths []string, name string) bool {
	for _, p := range paths {
		if path.Base(strings.ReplaceAll(p, `\`, "/")) == name {
			return true
		}
	}
	return false
}

func init() {
	checks.Register(&ComplianceFilesPresentCheck{})
}
