package checks

type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	// StatusSkipped marks checks that could not run because an optional
	// external capability is unavailable under current configuration.
	// Skipped results never affect the overall run status.
	StatusSkipped Status = "SKIPPED"
	// StatusError marks checks whose facts could not be extracted at all
	// (inspection tool failure).
	StatusError Status = "ERROR"
)

type Result struct {
	CheckID  string `json:"check_id"`
	Artifact string `json:"artifact"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	// Evidence is ordered raw supporting detail (truncated for display).
	Evidence []string `json:"evidence,omitempty"`
}
