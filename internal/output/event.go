package output

import "shipcheck/internal/checks"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - artifact.started
// - check.result
// - artifact.finished
// - run.finished
//
// JSON mode remains an aggregate of checks.Result values.
type Event struct {
	Type     string `json:"type"`
	Artifact string `json:"artifact,omitempty"`
	*checks.Result
	Artifacts int `json:"artifacts,omitempty"`
	Checks    int `json:"checks,omitempty"`
	ExitCode  int `json:"exit_code,omitempty"`
}

func eventFromResult(r checks.Result) Event {
	return Event{Type: "check.result", Artifact: r.Artifact, Result: &r}
}
