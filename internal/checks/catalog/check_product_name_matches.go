package catalog

import (
	"fmt"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type ProductNameMatchesCheck struct{}

func (c *ProductNameMatchesCheck) ID() string {
	return "product-name-matches"
}

func (c *ProductNameMatchesCheck) Title() string {
	return "Declared ProductName Matches Product Configuration"
}

func (c *ProductNameMatchesCheck) Description() string {
	return "Verifies that the installer database's ProductName property exactly matches the canonical product name."
}

func (c *ProductNameMatchesCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatMSI}
}

func (c *ProductNameMatchesCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	got, res, ok := propertyValue(art, c.ID(), fs, "ProductName")
	if !ok {
		return res
	}
	if got != exp.ProductName {
		return checks.FailResult(art, c.ID(),
			fmt.Sprintf("ProductName is %q, expected %q", got, exp.ProductName))
	}
	return checks.PassResultWithMessage(art, c.ID(), fmt.Sprintf("ProductName is %q", got))
}

// propertyValue pulls one value out of the Property table. A missing table
// or missing property row is a structural fact and fails the check.
func propertyValue(art artifact.Artifact, checkID string, fs *facts.Set, name string) (string, checks.Result, bool) {
	if fs == nil || fs.Tables == nil {
		return "", checks.ErrorResult(art, checkID, "No table facts extracted"), false
	}
	rows, ok := fs.Tables.Rows("Property")
	if !ok {
		return "", checks.FailResult(art, checkID, "Installer database has no Property table"), false
	}
	for _, row := range rows {
		if row["Property"] == name {
			return row["Value"], checks.Result{}, true
		}
	}
	return "", checks.FailResult(art, checkID, "Property table has no "+name+" row"), false
}

func init() {
	checks.Register(&ProductNameMatchesCheck{})
}
