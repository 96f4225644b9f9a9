package checks

import "shipcheck/internal/artifact"

func NewResult(art artifact.Artifact, checkID string, status Status, message string) Result {
	res := Result{
		CheckID:  checkID,
		Artifact: art.Path,
		Status:   status,
	}
	if message != "" {
		res.Message = message
	}
	return res
}

func PassResult(art artifact.Artifact, checkID string) Result {
	return NewResult(art, checkID, StatusPass, "")
}

func PassResultWithMessage(art artifact.Artifact, checkID, message string) Result {
	return NewResult(art, checkID, StatusPass, message)
}

func FailResult(art artifact.Artifact, checkID, message string) Result {
	return NewResult(art, checkID, StatusFail, message)
}

func FailResultWithEvidence(art artifact.Artifact, checkID, message string, evidence []string) Result {
	res := NewResult(art, checkID, StatusFail, message)
	res.Evidence = evidence
	return res
}

func SkippedResult(art artifact.Artifact, checkID, message string) Result {
	return NewResult(art, checkID, StatusSkipped, message)
}

func ErrorResult(art artifact.Artifact, checkID, message string) Result {
	return NewResult(art, checkID, StatusError, message)
}
