package domain

// transitions is the forward-only workflow. hired is terminal and
// rejected -> applied is the reconsider move.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusApplied:     {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusInterviewed, ApplicationStatusRejected},
	ApplicationStatusInterviewed: {ApplicationStatusHired, ApplicationStatusRejected},
	ApplicationStatusRejected:    {ApplicationStatusApplied},
	ApplicationStatusHired:       {},
}

// Lifecycle decides which status moves are allowed. With EnforceGraph off
// any move between valid statuses is accepted.
type Lifecycle struct {
	EnforceGraph bool
}

// CanTransition reports whether from -> to is allowed. Staying on the same
// status is always allowed so notes can be edited on their own.
func (l Lifecycle) CanTransition(from, to ApplicationStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to || !l.EnforceGraph {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Next lists the statuses reachable from from under the enforced graph.
func (l Lifecycle) Next(from ApplicationStatus) []ApplicationStatus {
	if !l.EnforceGraph {
		out := make([]ApplicationStatus, 0, len(ApplicationStatuses))
		for _, s := range ApplicationStatuses {
			if s != from {
				out = append(out, s)
			}
		}
		return out
	}
	return append([]ApplicationStatus(nil), transitions[from]...)
}

// IsReconsider reports the rejected -> applied move.
func IsReconsider(from, to ApplicationStatus) bool {
	return from == ApplicationStatusRejected && to == ApplicationStatusApplied
}
