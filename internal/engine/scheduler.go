package engine

import (
	"context"

	"shipcheck/internal/artifact"
	"shipcheck/internal/checks"

	"golang.org/x/sync/errgroup"
)

// ArtifactReport is the full checklist outcome for one artifact.
type ArtifactReport struct {
	Artifact artifact.Artifact
	Results  []checks.Result
}

// runArtifacts evaluates artifacts in parallel, bounded by concurrency.
// Artifacts are independent (no shared mutable state; each inspection opens
// and releases its own external handles), so completion order is free; the
// returned slice keeps the input (path-sorted) order regardless.
func runArtifacts(ctx context.Context, arts []artifact.Artifact, concurrency int, evaluate func(context.Context, artifact.Artifact) []checks.Result) ([]ArtifactReport, error) {
	reports := make([]ArtifactReport, len(arts))

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for idx, art := range arts {
		g.Go(func() error {
			if err := runCtx.Err(); err != nil {
				return err
			}
			reports[idx] = ArtifactReport{Artifact: art, Results: evaluate(runCtx, art)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
