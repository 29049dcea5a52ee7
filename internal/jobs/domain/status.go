// Package domain provides core business rules for the jobs bounded context.
package domain

import "fmt"

// Status is the claim-lifecycle status of a job. Payment is tracked
// orthogonally via the paid_at timestamp, never as a Status value.
type Status string

const (
	// StatusNew is a freshly created booking, not yet released to pros.
	StatusNew Status = "new"
	// StatusAvailable is an unclaimed job visible to professionals.
	StatusAvailable Status = "available"
	// StatusAssigned is a job claimed by exactly one professional.
	StatusAssigned Status = "assigned"
	// StatusInProgress is a job the assigned professional has started.
	StatusInProgress Status = "in_progress"
	// StatusCompleted is a job the assigned professional has finished.
	StatusCompleted Status = "completed"
	// StatusClosed is an administratively closed job.
	StatusClosed Status = "closed"
)

// AllStatuses is the closed status vocabulary, in lifecycle order.
var AllStatuses = []Status{
	StatusNew,
	StatusAvailable,
	StatusAssigned,
	StatusInProgress,
	StatusCompleted,
	StatusClosed,
}

// proTransitions is the fixed table of caller-driven transitions. A
// professional can only walk the linear path assigned → in_progress →
// completed; everything else is rejected. Claiming (available → assigned)
// is not here: it is a separate conditional-write operation that also sets
// ownership.
var proTransitions = map[Status][]Status{
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
}

// ParseStatus validates a raw status string against the closed vocabulary.
func ParseStatus(raw string) (Status, error) {
	for _, s := range AllStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", raw)
}

// IsProTarget reports whether a status is one a professional may request.
// The progress surface is intentionally narrow: only in_progress and
// completed are caller-supplied targets.
func IsProTarget(s Status) bool {
	return s == StatusInProgress || s == StatusCompleted
}

// CanTransition reports whether a professional-driven transition from
// current to next is allowed by the fixed table.
func CanTransition(current, next Status) bool {
	for _, allowed := range proTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RequiresOwner reports whether a job in this status must have a non-null
// pro_id. Jobs in new/available must have no owner.
func RequiresOwner(s Status) bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	default:
		return false
	}
}
