package inspect

import (
	"context"

	"shipcheck/internal/artifact"
	"shipcheck/internal/facts"
	"shipcheck/internal/product"
)

// Inspector dispatches static inspection to the format-specific inspector
// selected by the artifact's format.
type Inspector struct {
	Manifest *ManifestInspector
	MSI      *MSIInspector
	NSIS     *NSISInspector
}

func NewInspector(runner Runner, locator *Locator) *Inspector {
	return &Inspector{
		Manifest: &ManifestInspector{Runner: runner},
		MSI:      &MSIInspector{Querier: &ExecTableQuerier{Runner: runner, Locator: locator}},
		NSIS:     &NSISInspector{Runner: runner, Locator: locator},
	}
}

// Static extracts the artifact's static fact set. A ToolError is fatal to
// the artifact's remaining static checks but not to other artifacts.
func (i *Inspector) Static(ctx context.Context, art artifact.Artifact, exp *product.Expectation) (*facts.Set, error) {
	fs := &facts.Set{}
	switch art.Format {
	case artifact.FormatMSI:
		tables, err := i.MSI.Inspect(ctx, art)
		if err != nil {
			return nil, err
		}
		fs.Tables = tables
	case artifact.FormatNSISExe:
		markers, payload, err := i.NSIS.Inspect(ctx, art, exp)
		if err != nil {
			return nil, err
		}
		fs.Markers = markers
		fs.Payload = payload
	default:
		manifest, err := i.Manifest.Inspect(ctx, art)
		if err != nil {
			return nil, err
		}
		fs.Manifest = manifest
	}
	return fs, nil
}
