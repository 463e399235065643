package engine

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
//
//	PENDING -> STARTED -> DOING -> COMPLETED -> APPROVED
//	                                        \-> REJECTED -> (resubmit)
//	{PENDING, STARTED, DOING, REJECTED} -> FAILED   (window elapsed)
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusStarted   Status = "STARTED"
	StatusDoing     Status = "DOING"
	StatusCompleted Status = "COMPLETED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusFailed    Status = "FAILED"
)

var allStatuses = []Status{
	StatusPending, StatusStarted, StatusDoing, StatusCompleted,
	StatusApproved, StatusRejected, StatusFailed,
}

func (s Status) IsValid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Workable reports whether the child can still act on a task in this state.
// REJECTED counts as pending for resubmission.
func (s Status) Workable() bool {
	switch s {
	case StatusPending, StatusStarted, StatusDoing, StatusRejected:
		return true
	case StatusCompleted, StatusApproved, StatusFailed:
		return false
	default:
		return false
	}
}

func ParseStatus(input string) (Status, error) {
	s := Status(strings.TrimSpace(strings.ToUpper(input)))
	if !s.IsValid() {
		return "", fmt.Errorf("invalid status: %q", input)
	}
	return s, nil
}

// statusForSteps derives the working status from sub-step progress.
func statusForSteps(steps []Step) Status {
	done := 0
	for _, s := range steps {
		if s.Completed {
			done++
		}
	}
	switch {
	case len(steps) > 0 && done == len(steps):
		return StatusDoing
	case done > 0:
		return StatusStarted
	default:
		return StatusPending
	}
}

// StartTask moves a pending (or rejected) task to STARTED. It is refused when
// the player has no HP or the task's window has already closed.
func StartTask(t Task, hp, hour int, tun Tuning) (Task, error) {
	if hp <= 0 {
		return t, ErrIncapacitated
	}
	switch t.Status {
	case StatusPending, StatusRejected:
	default:
		return t, ErrInvalidTransition
	}
	if tun.WindowElapsed(t.TimeOfDay, hour) {
		return t, ErrWindowClosed
	}
	next := t.clone()
	next.Status = StatusStarted
	return next, nil
}

// ToggleStep flips one sub-step and recomputes the working status.
func ToggleStep(t Task, stepID string) (Task, error) {
	if !t.Status.Workable() {
		return t, ErrInvalidTransition
	}
	next := t.clone()
	found := false
	for i := range next.Steps {
		if next.Steps[i].ID == stepID {
			next.Steps[i].Completed = !next.Steps[i].Completed
			found = true
			break
		}
	}
	if !found {
		return t, ErrUnknownStep
	}
	next.Status = statusForSteps(next.Steps)
	return next, nil
}

// SubmitEvidence hands a finished task over for review.
func SubmitEvidence(t Task, url string, typ EvidenceType, now time.Time, rules Rules, tun Tuning) (Task, error) {
	if !t.Status.Workable() {
		return t, ErrInvalidTransition
	}
	if tun.WindowElapsed(t.TimeOfDay, now.Hour()) {
		return t, ErrWindowClosed
	}
	if !t.StepsDone() {
		return t, ErrStepsIncomplete
	}
	url = strings.TrimSpace(url)
	if rules.RequireEvidence && url == "" {
		return t, ErrEvidenceRequired
	}
	if typ == "" {
		typ = EvidencePhoto
	}
	next := t.clone()
	next.Status = StatusCompleted
	next.EvidenceURL = url
	next.EvidenceType = typ
	stamp := now
	next.CompletedAt = &stamp
	return next, nil
}

func ApproveTask(t Task, feedback string) (Task, error) {
	if t.Status != StatusCompleted {
		return t, ErrInvalidTransition
	}
	next := t.clone()
	next.Status = StatusApproved
	next.ParentFeedback = strings.TrimSpace(feedback)
	return next, nil
}

func RejectTask(t Task, feedback string) (Task, error) {
	if t.Status != StatusCompleted {
		return t, ErrInvalidTransition
	}
	next := t.clone()
	next.Status = StatusRejected
	next.EvidenceURL = ""
	next.EvidenceType = ""
	next.CompletedAt = nil
	next.ParentFeedback = strings.TrimSpace(feedback)
	return next, nil
}

// ExpireTask fails an unresolved task whose window has elapsed at hour.
// Tasks that are submitted, approved or already failed are left alone.
func ExpireTask(t Task, hour int, tun Tuning) (Task, bool) {
	if !t.Status.Workable() || !tun.WindowElapsed(t.TimeOfDay, hour) {
		return t, false
	}
	next := t.clone()
	next.Status = StatusFailed
	return next, true
}

// ResetTask returns a recurring task to a fresh PENDING state.
func ResetTask(t Task) (Task, bool) {
	if !t.Recurrence.Recurring() {
		return t, false
	}
	next := t.clone()
	next.Status = StatusPending
	next.EvidenceURL = ""
	next.EvidenceType = ""
	next.CompletedAt = nil
	next.ParentFeedback = ""
	for i := range next.Steps {
		next.Steps[i].Completed = false
	}
	return next, true
}
