package getmotion

// Status represents the remote status of a GetMotion job.
//
// The enumeration is open: the server may introduce statuses this SDK does
// not know about, and unknown values pass through untouched. Classification
// helpers treat unrecognized statuses as non-terminal.
type Status string

// Job statuses aligned with the GetMotion pipeline.
const (
	StatusCreated            Status = "CREATED"
	StatusQueuedComposePre   Status = "QUEUED_COMPOSE_PRE"
	StatusRunningComposePre  Status = "RUNNING_COMPOSE_PRE"
	StatusStoryboardDraft    Status = "STORYBOARD_DRAFT"
	StatusAwaitingReview     Status = "AWAITING_REVIEW"
	StatusQueuedComposePost  Status = "QUEUED_COMPOSE_POST"
	StatusRunningComposePost Status = "RUNNING_COMPOSE_POST"
	StatusReadyForInject     Status = "READY_FOR_INJECT"
	StatusQueuedInject       Status = "QUEUED_INJECT"
	StatusRunningInject      Status = "RUNNING_INJECT"
	StatusCompleted          Status = "COMPLETED"
	StatusDone               Status = "DONE"
	StatusFailed             Status = "FAILED"
	StatusCancelled          Status = "CANCELLED"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s.IsTerminalSuccess() || s.IsTerminalFailure()
}

// IsTerminalSuccess returns true if the status marks successful completion.
// Some backend versions report COMPLETED and others DONE; both are treated
// as the same terminal success.
func (s Status) IsTerminalSuccess() bool {
	switch s {
	case StatusCompleted, StatusDone:
		return true
	default:
		return false
	}
}

// IsTerminalFailure returns true if the status marks a failed or cancelled job.
func (s Status) IsTerminalFailure() bool {
	switch s {
	case StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Matches reports whether s satisfies target for wait purposes. Statuses
// match on equality, with the COMPLETED/DONE pair matching each other.
func (s Status) Matches(target Status) bool {
	if s == target {
		return true
	}
	return s.IsTerminalSuccess() && target.IsTerminalSuccess()
}
