package checks

import (
	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// Check is one named assertion comparing extracted facts against the
// resolved expectation. Checks are independent: one check's failure never
// suppresses another's.
type Check interface {
	ID() string
	Title() string
	Description() string

	// Formats lists the artifact formats this check applies to.
	Formats() []artifact.Format

	// Evaluate runs check logic using only the fact set and expectation.
	// Checks MUST NOT touch the artifact file or invoke external tools.
	Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) Result
}

// AppliesTo reports whether a check covers the given format.
func AppliesTo(c Check, f artifact.Format) bool {
	for _, cf := range c.Formats() {
		if cf == f {
			return true
		}
	}
	return false
}
