package catalog

import (
	"fmt"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type URLSchemeMarkerPresentCheck struct{}

func (c *URLSchemeMarkerPresentCheck) ID() string {
	return "url-scheme-marker-present"
}

func (c *URLSchemeMarkerPresentCheck) Title() string {
	return "URL Scheme Handler Markers Embedded in Installer"
}

func (c *URLSchemeMarkerPresentCheck) Description() string {
	return "Verifies that the installer binary embeds the stable URL scheme's handler tokens. Tokens are matched as literal bytes; no case folding."
}

func (c *URLSchemeMarkerPresentCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatNSISExe}
}

func (c *URLSchemeMarkerPresentCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Markers == nil {
		return checks.ErrorResult(art, c.ID(), "No marker facts extracted")
	}

	scheme := exp.PrimaryScheme()
	tokens := []string{scheme + "://", "x-scheme-handler/" + scheme}
	for _, token := range tokens {
		if fs.Markers.Has(token) {
			return checks.PassResultWithMessage(art, c.ID(),
				fmt.Sprintf("Found handler marker %q", token))
		}
	}
	return checks.FailResultWithEvidence(art, c.ID(),
		fmt.Sprintf("No handler marker for scheme %q found in installer binary", scheme),
		tokens)
}

func init() {
	checks.Register(&URLSchemeMarkerPresentCheck{})
}
