package inspect

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SigningToolNotFoundError means signing is configured but the verification
// capability cannot be located anywhere. This is a configuration
// precondition error: the run fails fast before any artifact is inspected.
type SigningToolNotFoundError struct {
	What string
}

func (e *SigningToolNotFoundError) Error() string {
	return fmt.Sprintf("signing is configured but %s could not be located", e.What)
}

const signToolName = "osslsigncode"

// SigningInspector verifies artifact signatures. Linux package formats carry
// detached GPG signatures verified in-process against the release keyring;
// Windows installer formats are verified through the external Authenticode
// tool.
type SigningInspector struct {
	Enabled bool
	Runner  Runner
	Locator *Locator

	keyring  openpgp.EntityList
	toolPath string
}

func NewSigningInspector(enabled bool, runner Runner, locator *Locator) *SigningInspector {
	return &SigningInspector{Enabled: enabled, Runner: runner, Locator: locator}
}

// Preflight locates every verification capability the discovered formats
// need. Called once before inspection; a missing capability aborts the run.
func (s *SigningInspector) Preflight(present map[artifact.Format]bool, gpgKeyPath string) error {
	if !s.Enabled {
		return nil
	}

	if present[artifact.FormatMSI] || present[artifact.FormatNSISExe] {
		path, ok := s.Locator.Locate(signToolName)
		if !ok {
			return &SigningToolNotFoundError{What: signToolName}
		}
		s.toolPath = path
	}

	if present[artifact.FormatRPM] || present[artifact.FormatDEB] {
		if gpgKeyPath == "" {
			return &SigningToolNotFoundError{What: "a release GPG public key (signing.gpgPublicKey)"}
		}
		keyring, err := loadKeyring(gpgKeyPath)
		if err != nil {
			return &SigningToolNotFoundError{What: fmt.Sprintf("a readable release GPG public key at %s (%v)", gpgKeyPath, err)}
		}
		s.keyring = keyring
	}
	return nil
}

// Inspect verifies one artifact's signature. When signing is not configured
// it returns nil facts; the signature check records Skipped.
func (s *SigningInspector) Inspect(ctx context.Context, art artifact.Artifact) (*facts.SignatureFacts, error) {
	if !s.Enabled || !art.Format.Signable() {
		return nil, nil
	}
	switch art.Format {
	case artifact.FormatMSI, artifact.FormatNSISExe:
		return s.verifyAuthenticode(ctx, art)
	default:
		return s.verifyDetached(art)
	}
}

func (s *SigningInspector) verifyAuthenticode(ctx context.Context, art artifact.Artifact) (*facts.SignatureFacts, error) {
	inv := s.Runner.Run(ctx, s.toolPath, "verify", art.Path)
	if inv.Err != nil && inv.ExitCode < 0 {
		return nil, &ToolError{Format: art.Format, Tool: signToolName, ExitCode: inv.ExitCode, Detail: firstLine(inv.Stderr)}
	}
	return &facts.SignatureFacts{
		Signed:           inv.ExitCode == 0,
		VerifierExitCode: inv.ExitCode,
		Detail:           firstLine(inv.Stderr),
	}, nil
}

func (s *SigningInspector) verifyDetached(art artifact.Artifact) (*facts.SignatureFacts, error) {
	sigPath := art.Path + ".asc"
	sig, err := os.Open(sigPath)
	if err != nil {
		return &facts.SignatureFacts{Signed: false, VerifierExitCode: 1, Detail: "no detached signature at " + sigPath}, nil
	}
	defer sig.Close()

	data, err := os.Open(art.Path)
	if err != nil {
		return nil, &ToolError{Format: art.Format, Tool: "gpg-verify", ExitCode: -1, Detail: err.Error()}
	}
	defer data.Close()

	_, verifyErr := openpgp.CheckArmoredDetachedSignature(s.keyring, data, sig, nil)
	if verifyErr != nil {
		// Retry as a binary signature.
		if _, err := sig.Seek(0, 0); err == nil {
			if _, err := data.Seek(0, 0); err == nil {
				_, verifyErr = openpgp.CheckDetachedSignature(s.keyring, data, sig, nil)
			}
		}
	}

	if verifyErr != nil {
		return &facts.SignatureFacts{Signed: false, VerifierExitCode: 1, Detail: verifyErr.Error()}, nil
	}
	return &facts.SignatureFacts{Signed: true}, nil
}

func loadKeyring(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return nil, seekErr
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("not a usable keyring: %w", err)
		}
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("keyring holds no keys")
	}
	return entities, nil
}

// SigningConfiguredFromEnv is a helper for the CLI layer: ambient signing
// configuration is read once at startup, never inside inspectors.
func SigningConfiguredFromEnv(getenv func(string) string) bool {
	v := strings.ToLower(strings.TrimSpace(getenv("SHIPCHECK_SIGN")))
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
