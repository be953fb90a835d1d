package domain

type SubmissionStatus string

const (
	SubmissionStatusIdle       SubmissionStatus = "IDLE"
	SubmissionStatusSubmitting SubmissionStatus = "SUBMITTING"
	SubmissionStatusSucceeded  SubmissionStatus = "SUCCEEDED"
	SubmissionStatusFailed     SubmissionStatus = "FAILED"
)

func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusSucceeded || s == SubmissionStatusFailed
}

// String representation (for logging)
func (s SubmissionStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the submission lifecycle. Terminal states return to idle on the next
// user action.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case SubmissionStatusIdle:
		return next == SubmissionStatusSubmitting
	case SubmissionStatusSubmitting:
		return next == SubmissionStatusSucceeded || next == SubmissionStatusFailed
	case SubmissionStatusSucceeded, SubmissionStatusFailed:
		return next == SubmissionStatusIdle
	}
	return false
}
