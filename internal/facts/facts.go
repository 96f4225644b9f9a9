// Package facts holds the structured observations inspectors extract from
// artifacts. Fact sets are produced once per artifact, handed read-only to
// the assertion layer, and discarded after assertion.
package facts

// Row is one row of a relational installer-database table, keyed by column name.
type Row map[string]string

// ManifestFacts is the ordered list of absolute installed file paths reported
// by a package's native listing query.
type ManifestFacts struct {
	FilePaths []string
}

// TableFacts holds materialized relational tables keyed by table name.
// A table queried but structurally absent from the artifact has no entry.
type TableFacts struct {
	Tables map[string][]Row
}

// Rows returns the rows of a table and whether the table exists at all.
func (t *TableFacts) Rows(name string) ([]Row, bool) {
	if t == nil || t.Tables == nil {
		return nil, false
	}
	rows, ok := t.Tables[name]
	return rows, ok
}

// MarkerFacts records which marker strings a streaming binary scan found.
type MarkerFacts struct {
	Found map[string]bool
}

func (m *MarkerFacts) Has(marker string) bool {
	return m != nil && m.Found[marker]
}

// PayloadFacts is the list of file names observed inside an extracted
// installer payload. A nil PayloadFacts means no extraction capability was
// available, which is distinct from an empty listing.
type PayloadFacts struct {
	Names []string
}

// SignatureFacts reports the outcome of signature verification.
type SignatureFacts struct {
	Signed           bool
	VerifierExitCode int
	Detail           string
}

// DynamicFacts reports the outcome of an ephemeral install probe.
type DynamicFacts struct {
	Installed        bool
	BinaryExecutable bool
	MissingLibraries []string
	Log              []string
}

// Set is the complete fact set for one artifact. Only the variants the
// artifact's format produces are populated; the rest stay nil.
type Set struct {
	Manifest  *ManifestFacts
	Tables    *TableFacts
	Markers   *MarkerFacts
	Payload   *PayloadFacts
	Signature *SignatureFacts
	Dynamic   *DynamicFacts
}
