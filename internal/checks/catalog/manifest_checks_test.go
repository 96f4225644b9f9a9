package catalog

import (
	"strings"
	"testing"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

func linuxExpectation() *product.Expectation {
	return &product.Expectation{
		ProductName:     "Widget Studio",
		LinuxBinaryPath: "/opt/widget/widget",
		ComplianceFiles: []string{"LICENSE.txt", "NOTICES.txt"},
	}
}

func manifestSet(paths ...string) *facts.Set {
	return &facts.Set{Manifest: &facts.ManifestFacts{FilePaths: paths}}
}

var rpmArt = artifact.New("/dist/widget-1.0.rpm", artifact.FormatRPM)

func TestPayloadBinaryPresentCheck(t *testing.T) {
	c := &PayloadBinaryPresentCheck{}
	exp := linuxExpectation()

	t.Run("binary at expected path", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/opt/widget/widget", "/usr/bin/widget"), exp)
		if res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("binary missing", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/usr/bin/widget"), exp)
		if res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
		if len(res.Evidence) == 0 {
			t.Error("expected manifest paths as evidence")
		}
	})

	t.Run("similar path does not satisfy exact match", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/opt/widget/widget.bak"), exp)
		if res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("no manifest facts", func(t *testing.T) {
		res := c.Evaluate(rpmArt, &facts.Set{}, exp)
		if res.Status != checks.StatusError {
			t.Errorf("status = %s, want ERROR", res.Status)
		}
	})
}

func TestDesktopEntryPresentCheck(t *testing.T) {
	c := &DesktopEntryPresentCheck{}
	exp := linuxExpectation()

	t.Run("entry under registration directory", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/usr/share/applications/widget.desktop"), exp)
		if res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("any file name satisfies the pattern", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/usr/share/applications/com.example.Widget.desktop"), exp)
		if res.Status != checks.StatusPass {
			t.Errorf("status = %s, want PASS", res.Status)
		}
	})

	t.Run("desktop file outside the directory", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/opt/widget/widget.desktop"), exp)
		if res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("wrong suffix under the directory", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/usr/share/applications/widget.txt"), exp)
		if res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})
}

func TestComplianceFilesPresentCheck(t *testing.T) {
	c := &ComplianceFilesPresentCheck{}
	exp := linuxExpectation()
	nsisArt := artifact.New("/dist/widget-setup.exe", artifact.FormatNSISExe)

	t.Run("all present in manifest", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet(
			"/usr/share/doc/widget/LICENSE.txt",
			"/usr/share/doc/widget/NOTICES.txt",
		), exp)
		if res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("one missing from manifest", func(t *testing.T) {
		res := c.Evaluate(rpmArt, manifestSet("/usr/share/doc/widget/LICENSE.txt"), exp)
		if res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
		if !strings.Contains(res.Message, "NOTICES.txt") {
			t.Errorf("message %q does not name the missing file", res.Message)
		}
	})

	t.Run("installer payload with backslash paths", func(t *testing.T) {
		fs := &facts.Set{Payload: &facts.PayloadFacts{Names: []string{
			`$INSTDIR\LICENSE.txt`,
			`docs\NOTICES.txt`,
		}}}
		res := c.Evaluate(nsisArt, fs, exp)
		if res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("payload capability unavailable", func(t *testing.T) {
		res := c.Evaluate(nsisArt, &facts.Set{}, exp)
		if res.Status != checks.StatusSkipped {
			t.Errorf("status = %s, want SKIPPED", res.Status)
		}
	})
}
