// Package task defines the planning projection of a block: its status,
// scheduling fields, dependency declarations, and the property schema used
// to decode them from the host's typed payloads.
package task

import "time"

// Status is the canonical task lifecycle state. The host may relabel each
// state but the semantics are fixed.
type Status int

const (
	StatusTodo Status = iota
	StatusDoing
	StatusDone
	StatusWaiting
	StatusCanceled
)

// String returns the canonical label for the status.
func (s Status) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusDoing:
		return "doing"
	case StatusDone:
		return "done"
	case StatusWaiting:
		return "waiting"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends the task's lifecycle.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCanceled
}

// Open reports whether the task still represents unfinished work.
func (s Status) Open() bool {
	return !s.Terminal()
}

// DependsMode selects how declared dependencies combine.
type DependsMode int

const (
	// DependsAll requires every dependency target to be done.
	DependsAll DependsMode = iota
	// DependsAny requires at least one dependency target to be done.
	DependsAny
)

// String returns the wire label for the mode.
func (m DependsMode) String() string {
	if m == DependsAny {
		return "any"
	}
	return "all"
}

// Task is the engine's read-only projection of one logical task. It is
// materialized fresh on every loader pass and keyed by canonical id.
type Task struct {
	ID   string
	Text string

	Status          Status
	StartTime       *time.Time
	EndTime         *time.Time
	CompletedAt     *time.Time
	StatusChangedAt *time.Time

	Importance *float64 // 0-100
	Urgency    *float64 // 0-100
	Effort     *float64 // 0-100
	Star       bool

	DependsOn       []string // canonical ids, deduplicated, order preserved
	DependsMode     DependsMode
	DependencyDelay float64 // hours after a dependency completes before it counts

	ParentTaskID string
	ChildTaskIDs []string
}
