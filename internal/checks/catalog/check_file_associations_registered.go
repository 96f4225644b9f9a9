package catalog

import (
	"fmt"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// externalProgIDs is the narrow third-party fallback: extensions historically
// owned by another application may present that application's ProgId as
// secondary acceptable proof of registration. The fallback never applies to
// extensions outside this list, and a pass obtained through it is flagged in
// the result message.
var externalProgIDs = map[string][]string{
	"html": {"ChromeHTML", "MSEdgeHTM", "FirefoxHTML"},
	"htm":  {"ChromeHTML", "MSEdgeHTM", "FirefoxHTML"},
}

type FileAssociationsRegisteredCheck struct{}

func (c *FileAssociationsRegisteredCheck) ID() string {
	return "file-associations-registered"
}

func (c *FileAssociationsRegisteredCheck) Title() string {
	return "File Association Extensions Registered"
}

func (c *FileAssociationsRegisteredCheck) Description() string {
	return "Verifies that every expected file-association extension has an Extension table row whose ProgId chain resolves to the product. For extensions commonly owned by a third party, a recognized external ProgId is accepted as secondary proof and flagged."
}

func (c *FileAssociationsRegisteredCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatMSI}
}

func (c *FileAssociationsRegisteredCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Tables == nil {
		return checks.ErrorResult(art, c.ID(), "No table facts extracted")
	}
	rows, ok := fs.Tables.Rows("Extension")
	if !ok {
		return checks.FailResult(art, c.ID(), "Installer database has no Extension table")
	}

	byExt := make(map[string][]facts.Row)
	var evidence []string
	for _, row := range rows {
		ext := product.NormalizeExtension(row["Extension"])
		byExt[ext] = append(byExt[ext], row)
		evidence = append(evidence, fmt.Sprintf("Extension=%s ProgId_=%s", row["Extension"], row["ProgId_"]))
	}

	var missing, unresolved, flagged []string
	for _, ext := range exp.FileAssociationExtensions {
		extRows, ok := byExt[ext]
		if !ok {
			missing = append(missing, ext)
			continue
		}
		direct, fallback := resolveProgID(ext, extRows, exp.ProductName)
		switch {
		case direct:
		case fallback != "":
			flagged = append(flagged, ext+" (via external ProgId "+fallback+")")
		default:
			unresolved = append(unresolved, ext)
		}
	}

	if len(missing) > 0 || len(unresolved) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "no Extension row for: "+strings.Join(missing, ", "))
		}
		if len(unresolved) > 0 {
			parts = append(parts, "ProgId chain does not resolve to product for: "+strings.Join(unresolved, ", "))
		}
		return checks.FailResultWithEvidence(art, c.ID(), strings.Join(parts, "; "), evidence)
	}

	if len(flagged) > 0 {
		return checks.PassResultWithMessage(art, c.ID(),
			"All extensions registered; accepted on secondary evidence: "+strings.Join(flagged, ", "))
	}
	return checks.PassResultWithMessage(art, c.ID(),
		"All extensions registered: "+strings.Join(exp.FileAssociationExtensions, ", "))
}

// resolveProgID reports whether any row's ProgId chain resolves to the
// product directly, and otherwise which recognized external ProgId (if any)
// covers the extension.
func resolveProgID(ext string, rows []facts.Row, productName string) (direct bool, fallback string) {
	needle := strings.ToLower(strings.ReplaceAll(productName, " ", ""))
	for _, row := range rows {
		progID := row["ProgId_"]
		if progID == "" {
			continue
		}
		if needle != "" && strings.Contains(strings.ToLower(progID), needle) {
			return true, ""
		}
		for _, known := range externalProgIDs[ext] {
			if strings.EqualFold(progID, known) {
				fallback = progID
			}
		}
	}
	return false, fallback
}

func init() {
	checks.Register(&FileAssociationsRegisteredCheck{})
}
