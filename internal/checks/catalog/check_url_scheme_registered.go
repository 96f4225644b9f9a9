package catalog

import (
	"fmt"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// urlProtocolMarker is the literal registry value name denoting "this key is
// a URL protocol handler".
const urlProtocolMarker = "URL Protocol"

type URLSchemeRegisteredCheck struct{}

func (c *URLSchemeRegisteredCheck) ID() string {
	return "url-scheme-registered"
}

func (c *URLSchemeRegisteredCheck) Title() string {
	return "URL Protocol Handler Registered"
}

func (c *URLSchemeRegisteredCheck) Description() string {
	return "Verifies that the Registry table establishes the product's URL scheme as a protocol handler (a key for the scheme carrying the literal \"URL Protocol\" value). When multiple schemes are configured, the stable scheme is asserted preferentially."
}

func (c *URLSchemeRegisteredCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatMSI}
}

func (c *URLSchemeRegisteredCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Tables == nil {
		return checks.ErrorResult(art, c.ID(), "No table facts extracted")
	}
	rows, ok := fs.Tables.Rows("Registry")
	if !ok {
		return checks.FailResult(art, c.ID(), "Installer database has no Registry table")
	}

	scheme := exp.PrimaryScheme()
	var evidence []string
	for _, row := range rows {
		key := strings.ToLower(strings.ReplaceAll(row["Key"], `/`, `\`))
		if strings.HasSuffix(key, `\`+scheme) || key == scheme {
			evidence = append(evidence, fmt.Sprintf("Key=%s Name=%s Value=%s", row["Key"], row["Name"], row["Value"]))
			if row["Name"] == urlProtocolMarker {
				return checks.PassResultWithMessage(art, c.ID(),
					fmt.Sprintf("Scheme %q registered as URL protocol (key %s)", scheme, row["Key"]))
			}
		}
	}

	if len(evidence) > 0 {
		return checks.FailResultWithEvidence(art, c.ID(),
			fmt.Sprintf("Registry rows exist for scheme %q but none carries the %q marker", scheme, urlProtocolMarker),
			evidence)
	}
	return checks.FailResult(art, c.ID(),
		fmt.Sprintf("No Registry table row registers scheme %q as a protocol handler", scheme))
}

func init() {
	checks.Register(&URLSchemeRegisteredCheck{})
}
