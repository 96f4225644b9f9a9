package catalog

import (
	"fmt"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type UpgradeCodeMatchesCheck struct{}

func (c *UpgradeCodeMatchesCheck) ID() string {
	return "upgrade-code-matches"
}

func (c *UpgradeCodeMatchesCheck) Title() string {
	return "Declared UpgradeCode Matches Product Configuration"
}

func (c *UpgradeCodeMatchesCheck) Description() string {
	return "Verifies that the installer database's UpgradeCode property matches the canonical upgrade identifier. Both sides are compared in normalized GUID form, never as raw strings: brace style and hex casing vary by packaging tool version."
}

func (c *UpgradeCodeMatchesCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatMSI}
}

func (c *UpgradeCodeMatchesCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	got, res, ok := propertyValue(art, c.ID(), fs, "UpgradeCode")
	if !ok {
		return res
	}

	norm, err := product.NormalizeGUID(got)
	if err != nil {
		return checks.FailResult(art, c.ID(),
			fmt.Sprintf("UpgradeCode %q is not a valid GUID: %v", got, err))
	}
	if norm != exp.UpgradeCode {
		return checks.FailResult(art, c.ID(),
			fmt.Sprintf("UpgradeCode is %s (raw %q), expected %s", norm, got, exp.UpgradeCode))
	}
	return checks.PassResultWithMessage(art, c.ID(), "UpgradeCode is "+norm)
}

func init() {
	checks.Register(&UpgradeCodeMatchesCheck{})
}
