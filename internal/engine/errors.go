package engine

import "errors"

// ErrNoArtifactsFound means discovery produced an empty artifact set. The
// run cannot proceed without a subject; this is fatal pre-inspection.
var ErrNoArtifactsFound = errors.New("no artifacts found to validate")
