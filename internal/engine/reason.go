// Package engine computes task readiness and priority over an immutable
// snapshot of the host's block graph. One pass loads every tagged task,
// classifies it as actionable or blocked with reasons, and scores it for
// ranking; the pass is cached until a mutation explicitly invalidates it.
package engine

import "github.com/litcu/orca-plugin-task-planner-sub000/internal/task"

// Reason identifies one cause preventing a task from being a next action.
// Declaration order is the display priority: when a task carries several
// reasons, the first one present is the primary reason.
type Reason int

const (
	ReasonCompleted Reason = iota
	ReasonCanceled
	ReasonNotStarted
	ReasonDependencyUnmet
	ReasonDependencyDelayed
	ReasonAncestorDependencyUnmet
	ReasonHasOpenChildren

	reasonCount
)

// String returns the wire tag for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonCanceled:
		return "canceled"
	case ReasonNotStarted:
		return "not-started"
	case ReasonDependencyUnmet:
		return "dependency-unmet"
	case ReasonDependencyDelayed:
		return "dependency-delayed"
	case ReasonAncestorDependencyUnmet:
		return "ancestor-dependency-unmet"
	case ReasonHasOpenChildren:
		return "has-open-children"
	default:
		return "unknown"
	}
}

// ReasonSet is a bitfield over Reason. The zero value is the empty set.
type ReasonSet uint8

// Add inserts a reason into the set.
func (s *ReasonSet) Add(r Reason) { *s |= 1 << uint(r) }

// Has reports whether the set contains the reason.
func (s ReasonSet) Has(r Reason) bool { return s&(1<<uint(r)) != 0 }

// Empty reports whether no reason is present.
func (s ReasonSet) Empty() bool { return s == 0 }

// Primary reduces the set to the single display reason, following the
// declaration order of Reason.
func (s ReasonSet) Primary() (Reason, bool) {
	for r := Reason(0); r < reasonCount; r++ {
		if s.Has(r) {
			return r, true
		}
	}
	return 0, false
}

// Reasons returns the members of the set in priority order.
func (s ReasonSet) Reasons() []Reason {
	var out []Reason
	for r := Reason(0); r < reasonCount; r++ {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// dependencyBlocked reports whether the set carries a reason from the
// dependency family, the only reasons that propagate to descendants.
func (s ReasonSet) dependencyBlocked() bool {
	return s.Has(ReasonDependencyUnmet) ||
		s.Has(ReasonDependencyDelayed) ||
		s.Has(ReasonAncestorDependencyUnmet)
}

// Evaluation is the engine's verdict for one task.
type Evaluation struct {
	Task          task.Task
	IsNextAction  bool
	BlockedReason ReasonSet
	Score         float64
}
