package engine

import (
	"sort"
	"time"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// evaluate classifies every task in the snapshot, returning the full
// reason set per canonical id. Dependency edges are judged from the
// already-resolved status of their targets, never from the target's own
// readiness, so dependency cycles cannot recurse. Ancestor propagation
// runs parents before children over containment, which is acyclic.
func evaluate(g *graph, now time.Time) map[string]ReasonSet {
	reasons := make(map[string]ReasonSet, len(g.tasks))
	for _, id := range g.order {
		reasons[id] = localReasons(g, g.tasks[id], now)
	}

	for _, id := range byContainmentDepth(g) {
		t := g.tasks[id]
		if t.Status.Terminal() || t.ParentTaskID == "" {
			continue
		}
		if reasons[t.ParentTaskID].dependencyBlocked() {
			rs := reasons[id]
			rs.Add(ReasonAncestorDependencyUnmet)
			reasons[id] = rs
		}
	}
	return reasons
}

// localReasons computes the reasons a task carries on its own, before
// ancestor propagation.
func localReasons(g *graph, t *task.Task, now time.Time) ReasonSet {
	var rs ReasonSet

	// Terminal statuses carry exactly one reason.
	switch t.Status {
	case task.StatusDone:
		rs.Add(ReasonCompleted)
		return rs
	case task.StatusCanceled:
		rs.Add(ReasonCanceled)
		return rs
	}

	if t.StartTime != nil && t.StartTime.After(now) {
		rs.Add(ReasonNotStarted)
	}

	for _, cid := range t.ChildTaskIDs {
		if child, ok := g.tasks[cid]; ok && child.Status.Open() {
			rs.Add(ReasonHasOpenChildren)
			break
		}
	}

	if reason, blocked := dependencyReason(g, t, now); blocked {
		rs.Add(reason)
	}
	return rs
}

// dependencyReason applies the task's dependency mode over its resolved
// targets. Targets that no longer resolve impose no constraint. When the
// mode is satisfied but a post-completion delay is configured, the edge
// set is unusable until the delay anchored on the relevant completion
// instant has elapsed; a satisfying target without a recorded completion
// instant anchors nothing.
func dependencyReason(g *graph, t *task.Task, now time.Time) (Reason, bool) {
	var targets []*task.Task
	for _, id := range t.DependsOn {
		if target, ok := g.tasks[id]; ok {
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		return 0, false
	}

	var anchor time.Time
	switch t.DependsMode {
	case task.DependsAny:
		satisfied := false
		for _, target := range targets {
			if target.Status != task.StatusDone {
				continue
			}
			satisfied = true
			// Earliest completion among done targets opens the window.
			if target.CompletedAt != nil && (anchor.IsZero() || target.CompletedAt.Before(anchor)) {
				anchor = *target.CompletedAt
			}
		}
		if !satisfied {
			return ReasonDependencyUnmet, true
		}
	default: // DependsAll
		for _, target := range targets {
			if target.Status != task.StatusDone {
				return ReasonDependencyUnmet, true
			}
			// Latest completion closes the set.
			if target.CompletedAt != nil && target.CompletedAt.After(anchor) {
				anchor = *target.CompletedAt
			}
		}
	}

	if t.DependencyDelay > 0 && !anchor.IsZero() {
		usable := anchor.Add(time.Duration(t.DependencyDelay * float64(time.Hour)))
		if now.Before(usable) {
			return ReasonDependencyDelayed, true
		}
	}
	return 0, false
}

// byContainmentDepth orders canonical ids so parents come before children.
// Containment cannot cycle in well-formed data; a corrupt parent loop is
// cut at the revisit instead of recursing forever.
func byContainmentDepth(g *graph) []string {
	depth := make(map[string]int, len(g.tasks))
	var walk func(id string, seen map[string]bool) int
	walk = func(id string, seen map[string]bool) int {
		if d, ok := depth[id]; ok {
			return d
		}
		t := g.tasks[id]
		d := 0
		if t.ParentTaskID != "" && !seen[id] {
			seen[id] = true
			d = walk(t.ParentTaskID, seen) + 1
		}
		depth[id] = d
		return d
	}
	for _, id := range g.order {
		walk(id, make(map[string]bool))
	}

	out := make([]string, len(g.order))
	copy(out, g.order)
	sort.SliceStable(out, func(i, j int) bool {
		return depth[out[i]] < depth[out[j]]
	})
	return out
}
