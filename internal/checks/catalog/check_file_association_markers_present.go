package catalog

import (
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type FileAssociationMarkersPresentCheck struct{}

func (c *FileAssociationMarkersPresentCheck) ID() string {
	return "file-association-markers-present"
}

func (c *FileAssociationMarkersPresentCheck) Title() string {
	return "File Association Extension Markers Embedded in Installer"
}

func (c *FileAssociationMarkersPresentCheck) Description() string {
	return "Verifies that the installer binary embeds a token for every expected file-association extension. Extension tokens are matched case-insensitively."
}

func (c *FileAssociationMarkersPresentCheck) Formats() []artifact.Format {
	return []artifact.Format{artifact.FormatNSISExe}
}

func (c *FileAssociationMarkersPresentCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Markers == nil {
		return checks.ErrorResult(art, c.ID(), "No marker facts extracted")
	}

	var missing []string
	for _, ext := range exp.FileAssociationExtensions {
		if !fs.Markers.Has("." + ext) {
			missing = append(missing, "."+ext)
		}
	}
	if len(missing) > 0 {
		return checks.FailResult(art, c.ID(),
			"Installer binary has no marker for: "+strings.Join(missing, ", "))
	}
	return checks.PassResultWithMessage(art, c.ID(),
		"All extension markers found ("+strings.Join(exp.FileAssociationExtensions, ", ")+")")
}

func init() {
	checks.Register(&FileAssociationMarkersPresentCheck{})
}
