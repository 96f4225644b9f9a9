package catalog

import (
	"strings"
	"testing"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

var msiArt = artifact.New("/dist/widget.msi", artifact.FormatMSI)

func windowsExpectation() *product.Expectation {
	return &product.Expectation{
		ProductName:               "Widget Studio",
		UpgradeCode:               "AABBCCDD-1122-3344-5566-77889900AABB",
		URLSchemes:                []string{"widget"},
		FileAssociationExtensions: []string{"wgt", "html"},
	}
}

func tableSet(tables map[string][]facts.Row) *facts.Set {
	return &facts.Set{Tables: &facts.TableFacts{Tables: tables}}
}

func TestProductNameMatchesCheck(t *testing.T) {
	c := &ProductNameMatchesCheck{}
	exp := windowsExpectation()

	t.Run("exact match", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "ProductName", "Value": "Widget Studio"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("mismatch names both values", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "ProductName", "Value": "Formula"},
		}})
		res := c.Evaluate(msiArt, fs, exp)
		if res.Status != checks.StatusFail {
			t.Fatalf("status = %s, want FAIL", res.Status)
		}
		if !strings.Contains(res.Message, `"Formula"`) || !strings.Contains(res.Message, `"Widget Studio"`) {
			t.Errorf("message %q does not carry both names", res.Message)
		}
	})

	t.Run("missing property row is a failure", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "Manufacturer", "Value": "Widget Inc"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("missing property table is a failure", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("no table facts is an inspection error", func(t *testing.T) {
		if res := c.Evaluate(msiArt, &facts.Set{}, exp); res.Status != checks.StatusError {
			t.Errorf("status = %s, want ERROR", res.Status)
		}
	})
}

func TestUpgradeCodeMatchesCheck(t *testing.T) {
	c := &UpgradeCodeMatchesCheck{}
	exp := windowsExpectation()

	t.Run("braced uppercase rendering matches", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "UpgradeCode", "Value": "{AABBCCDD-1122-3344-5566-77889900AABB}"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("bare lowercase rendering matches", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "UpgradeCode", "Value": "aabbccdd-1122-3344-5566-77889900aabb"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("different guid fails", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "UpgradeCode", "Value": "{11111111-2222-3333-4444-555555555555}"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("unparseable guid fails", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Property": {
			{"Property": "UpgradeCode", "Value": "not-a-guid"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})
}

func TestURLSchemeRegisteredCheck(t *testing.T) {
	c := &URLSchemeRegisteredCheck{}
	exp := windowsExpectation()

	t.Run("scheme key with protocol marker", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Registry": {
			{"Key": `SOFTWARE\Classes\widget`, "Name": "URL Protocol", "Value": ""},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusPass {
			t.Errorf("status = %s (%s), want PASS", res.Status, res.Message)
		}
	})

	t.Run("scheme key without the marker", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Registry": {
			{"Key": `SOFTWARE\Classes\widget`, "Name": "", "Value": "URL:widget"},
		}})
		res := c.Evaluate(msiArt, fs, exp)
		if res.Status != checks.StatusFail {
			t.Fatalf("status = %s, want FAIL", res.Status)
		}
		if len(res.Evidence) == 0 {
			t.Error("expected the near-miss rows as evidence")
		}
	})

	t.Run("no row for scheme", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Registry": {
			{"Key": `SOFTWARE\Classes\other`, "Name": "URL Protocol", "Value": ""},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("missing registry table is a failure", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})
}

func TestFileAssociationsRegisteredCheck(t *testing.T) {
	c := &FileAssociationsRegisteredCheck{}
	exp := windowsExpectation()

	t.Run("all extensions resolve to product", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Extension": {
			{"Extension": "wgt", "ProgId_": "WidgetStudio.wgt"},
			{"Extension": "html", "ProgId_": "WidgetStudio.html"},
		}})
		res := c.Evaluate(msiArt, fs, exp)
		if res.Status != checks.StatusPass {
			t.Fatalf("status = %s (%s), want PASS", res.Status, res.Message)
		}
		if strings.Contains(res.Message, "secondary evidence") {
			t.Errorf("direct resolution wrongly flagged: %q", res.Message)
		}
	})

	t.Run("external ProgId accepted for html and flagged", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Extension": {
			{"Extension": "wgt", "ProgId_": "WidgetStudio.wgt"},
			{"Extension": "html", "ProgId_": "MSEdgeHTM"},
		}})
		res := c.Evaluate(msiArt, fs, exp)
		if res.Status != checks.StatusPass {
			t.Fatalf("status = %s (%s), want PASS", res.Status, res.Message)
		}
		if !strings.Contains(res.Message, "MSEdgeHTM") {
			t.Errorf("message %q does not flag the external ProgId", res.Message)
		}
	})

	t.Run("external ProgId never covers product-owned extensions", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Extension": {
			{"Extension": "wgt", "ProgId_": "MSEdgeHTM"},
			{"Extension": "html", "ProgId_": "WidgetStudio.html"},
		}})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})

	t.Run("missing extension row", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{"Extension": {
			{"Extension": "html", "ProgId_": "WidgetStudio.html"},
		}})
		res := c.Evaluate(msiArt, fs, exp)
		if res.Status != checks.StatusFail {
			t.Fatalf("status = %s, want FAIL", res.Status)
		}
		if !strings.Contains(res.Message, "wgt") {
			t.Errorf("message %q does not name the missing extension", res.Message)
		}
	})

	t.Run("missing extension table is a failure", func(t *testing.T) {
		fs := tableSet(map[string][]facts.Row{})
		if res := c.Evaluate(msiArt, fs, exp); res.Status != checks.StatusFail {
			t.Errorf("status = %s, want FAIL", res.Status)
		}
	})
}
