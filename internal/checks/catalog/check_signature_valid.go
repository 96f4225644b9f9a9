package catalog

import (
	"fmt"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

type SignatureValidCheck struct{}

func (c *SignatureValidCheck) ID() string {
	return "signature-valid"
}

func (c *SignatureValidCheck) Title() string {
	return "Artifact Signature Verifies"
}

func (c *SignatureValidCheck) Description() string {
	return "Verifies the artifact's code signature: detached GPG signature for Linux package formats, Authenticode for Windows installers. Skipped when signing is not configured."
}

func (c *SignatureValidCheck) Formats() []artifact.Format {
	return signableFormats()
}

func (c *SignatureValidCheck) Evaluate(art artifact.Artifact, fs *facts.Set, exp *product.Expectation) checks.Result {
	if fs == nil || fs.Signature == nil {
		return checks.SkippedResult(art, c.ID(), "Signing not configured")
	}

	sig := fs.Signature
	if !sig.Signed {
		msg := fmt.Sprintf("Signature verification failed (verifier exit %d)", sig.VerifierExitCode)
		if sig.Detail != "" {
			return checks.FailResultWithEvidence(art, c.ID(), msg, []string{sig.Detail})
		}
		return checks.FailResult(art, c.ID(), msg)
	}
	return checks.PassResultWithMessage(art, c.ID(), "Signature verified")
}

func init() {
	checks.Register(&SignatureValidCheck{})
}
