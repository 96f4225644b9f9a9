package artifact

import "strings"

// Format identifies one supported installer/package format.
type Format string

const (
	FormatRPM      Format = "rpm"
	FormatDEB      Format = "deb"
	FormatAppImage Format = "appimage"
	FormatMSI      Format = "msi"
	FormatNSISExe  Format = "nsis"
)

// Artifact is one built installer/package file to validate.
// It is created by discovery and consumed read-only afterwards.
type Artifact struct {
	Path     string
	Format   Format
	Platform string
}

// Formats lists all supported formats in stable order.
func Formats() []Format {
	return []Format{FormatRPM, FormatDEB, FormatAppImage, FormatMSI, FormatNSISExe}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rpm":
		return FormatRPM, true
	case "deb":
		return FormatDEB, true
	case "appimage":
		return FormatAppImage, true
	case "msi":
		return FormatMSI, true
	case "nsis", "exe":
		return FormatNSISExe, true
	}
	return "", false
}

// FormatForExtension maps a file extension (with leading dot) to its format.
func FormatForExtension(ext string) (Format, bool) {
	switch strings.ToLower(ext) {
	case ".rpm":
		return FormatRPM, true
	case ".deb":
		return FormatDEB, true
	case ".appimage":
		return FormatAppImage, true
	case ".msi":
		return FormatMSI, true
	case ".exe":
		return FormatNSISExe, true
	}
	return "", false
}

// Platform returns the target OS family for a format.
func (f Format) PlatformName() string {
	switch f {
	case FormatMSI, FormatNSISExe:
		return "windows"
	default:
		return "linux"
	}
}

// ManifestBased reports whether the format is inspected through an installed
// file manifest (as opposed to relational tables or binary markers).
func (f Format) ManifestBased() bool {
	switch f {
	case FormatRPM, FormatDEB, FormatAppImage:
		return true
	}
	return false
}

// Signable reports whether a signature check applies to the format.
func (f Format) Signable() bool {
	return f != FormatAppImage
}

func New(path string, format Format) Artifact {
	return Artifact{Path: path, Format: format, Platform: format.PlatformName()}
}
