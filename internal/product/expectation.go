// Package product resolves the canonical product configuration document into
// the expected values an artifact must satisfy.
package product

import (
	"fmt"
	"os"
	"strings"

	"shipcheck/internal/artifact"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DesktopEntryDir is the application registration directory expected to hold
// a desktop entry in Linux package manifests.
const DesktopEntryDir = "/usr/share/applications/"

// MissingFieldError reports a required configuration field that is absent but
// needed by a check enabled for the formats present in this run.
type MissingFieldError struct {
	Path string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("product configuration is missing required field %q", e.Path)
}

// Document is the canonical product configuration as written on disk.
// The document is JSON-shaped; it is decoded with a YAML decoder, which
// accepts both JSON and YAML encodings.
type Document struct {
	ProductName      string   `yaml:"productName"`
	UpgradeCode      string   `yaml:"upgradeCode"`
	URLSchemes       []string `yaml:"urlSchemes"`
	FileAssociations []string `yaml:"fileAssociations"`
	ComplianceFiles  []string `yaml:"complianceFiles"`
	Binaries         struct {
		Linux   string `yaml:"linux"`
		Windows string `yaml:"windows"`
	} `yaml:"binaries"`
	Signing struct {
		GPGPublicKey string `yaml:"gpgPublicKey"`
	} `yaml:"signing"`
}

// Expectation is the normalized, read-only set of expected values shared
// across all artifacts in a run.
type Expectation struct {
	ProductName string

	// UpgradeCode is stored in normalized canonical form (uppercase hex,
	// braces stripped, hyphens kept) so downstream comparisons are exact-match.
	UpgradeCode string

	// URLSchemes in configured order; the first entry is the stable scheme
	// and is the one asserted preferentially.
	URLSchemes []string

	// FileAssociationExtensions normalized to lowercase without leading dot.
	FileAssociationExtensions []string

	ComplianceFiles []string

	LinuxBinaryPath   string
	WindowsExecutable string

	GPGPublicKeyPath string
}

// Load reads and decodes the product configuration document.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read product configuration: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse product configuration %s: %w", path, err)
	}
	return &doc, nil
}

// Resolve derives the expectation set for a run covering the given formats.
// Fields unused by the formats present are tolerated as absent; a field a
// present format's checklist needs yields a MissingFieldError naming it.
func Resolve(doc *Document, present map[artifact.Format]bool) (*Expectation, error) {
	if doc == nil {
		return nil, fmt.Errorf("product configuration document is nil")
	}

	manifestPresent := present[artifact.FormatRPM] || present[artifact.FormatDEB] || present[artifact.FormatAppImage]
	msiPresent := present[artifact.FormatMSI]
	nsisPresent := present[artifact.FormatNSISExe]

	exp := &Expectation{
		ProductName:       strings.TrimSpace(doc.ProductName),
		LinuxBinaryPath:   strings.TrimSpace(doc.Binaries.Linux),
		WindowsExecutable: strings.TrimSpace(doc.Binaries.Windows),
		GPGPublicKeyPath:  strings.TrimSpace(doc.Signing.GPGPublicKey),
	}

	if msiPresent && exp.ProductName == "" {
		return nil, &MissingFieldError{Path: "productName"}
	}

	if code := strings.TrimSpace(doc.UpgradeCode); code != "" {
		norm, err := NormalizeGUID(code)
		if err != nil {
			return nil, fmt.Errorf("upgradeCode: %w", err)
		}
		exp.UpgradeCode = norm
	} else if msiPresent {
		return nil, &MissingFieldError{Path: "upgradeCode"}
	}

	for _, s := range doc.URLSchemes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			exp.URLSchemes = append(exp.URLSchemes, s)
		}
	}
	if len(exp.URLSchemes) == 0 && (msiPresent || nsisPresent) {
		return nil, &MissingFieldError{Path: "urlSchemes"}
	}

	for _, ext := range doc.FileAssociations {
		ext = NormalizeExtension(ext)
		if ext != "" {
			exp.FileAssociationExtensions = append(exp.FileAssociationExtensions, ext)
		}
	}
	if len(exp.FileAssociationExtensions) == 0 && (msiPresent || nsisPresent) {
		return nil, &MissingFieldError{Path: "fileAssociations"}
	}

	for _, name := range doc.ComplianceFiles {
		name = strings.TrimSpace(name)
		if name != "" {
			exp.ComplianceFiles = append(exp.ComplianceFiles, name)
		}
	}
	if len(exp.ComplianceFiles) == 0 && (manifestPresent || nsisPresent) {
		return nil, &MissingFieldError{Path: "complianceFiles"}
	}

	if manifestPresent && exp.LinuxBinaryPath == "" {
		return nil, &MissingFieldError{Path: "binaries.linux"}
	}

	return exp, nil
}

// PrimaryScheme returns the stable URL scheme: the first configured entry.
func (e *Expectation) PrimaryScheme() string {
	if len(e.URLSchemes) == 0 {
		return ""
	}
	return e.URLSchemes[0]
}

// NormalizeGUID converts a GUID in any tool-dependent rendering (braced or
// bare, any hex case) into the canonical comparison form: uppercase hex with
// structural hyphens, no braces.
func NormalizeGUID(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "{")
	trimmed = strings.TrimSuffix(trimmed, "}")
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid GUID %q: %w", s, err)
	}
	return strings.ToUpper(id.String()), nil
}

// NormalizeExtension lowercases an extension and strips the leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	return strings.TrimPrefix(ext, ".")
}
