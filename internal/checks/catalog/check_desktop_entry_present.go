package catalog

import (
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type DesktopEntryPresentCheck struct{}

func (c *DesktopEntryPresentCheck) ID() string {
	return "desktop-entry-present"
}

func (c *DesktopEntryPresentCheck) Title() string {
	return "Desktop Entry Present Under Application Registration Directory"
}

func (c *DesktopEntryPresentCheck) Description() string {
	return "Verifies that the manifest contains a .desktop application descriptor under " + product.DesktopEntryDir + ". Matched by path pattern: any filename under the directory with the .desktop suffix satisfies the check."
}

func (c *DesktopEntryPresentCheck) Formats() []artifact.Format {
	return manifestFormats()
}

func (c *DesktopEntryPresentCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Manifest == nil {
		return checks.ErrorResult(art, c.ID(), "No manifest facts extracted")
	}

	for _, p := range fs.Manifest.FilePaths {
		if strings.HasPrefix(p, product.DesktopEntryDir) && strings.HasSuffix(p, ".desktop") {
			return checks.PassResultWithMessage(art, c.ID(), "Desktop entry present ("+p+")")
		}
	}
	return checks.FailResultWithEvidence(art, c.ID(),
		"No .desktop entry under "+product.DesktopEntryDir,
		fs.Manifest.FilePaths)
}

func init() {
	checks.Register(&DesktopEntryPresentCheck{})
}
