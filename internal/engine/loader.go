package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/litcu/orca-plugin-task-planner-sub000/internal/block"
	"github.com/litcu/orca-plugin-task-planner-sub000/internal/task"
)

// graph is one immutable snapshot of the task graph, keyed by canonical id.
// Containment and dependency are kept as separate adjacency structures and
// rebuilt fresh on every pass.
type graph struct {
	tasks      map[string]*task.Task
	order      []string            // canonical ids, sorted for determinism
	dependents map[string][]string // target id -> tasks that depend on it
}

// load fetches every block carrying the task tag and builds the snapshot:
// mirrored records are collapsed to their canonical id keeping live-block
// values, containment edges are restricted to task/task pairs, and each
// dependency target is re-canonicalized.
func load(ctx context.Context, src block.Source, sc task.Schema) (*graph, error) {
	blocks, err := src.FetchTaggedBlocks(ctx, sc.TagAlias)
	if err != nil {
		return nil, fmt.Errorf("fetch tagged blocks: %w", err)
	}
	res := block.NewResolver(blocks)

	// Group physical blocks by canonical id. The representative record is
	// the one whose own id is canonical (the live mirror when present).
	reps := make(map[string]block.Block)
	children := make(map[string][]string)
	parents := make(map[string]string)
	for _, b := range blocks {
		id := res.Canonical(b.ID)
		rep, ok := reps[id]
		if !ok || b.ID == id {
			if ok && rep.ParentID != "" && b.ParentID == "" {
				b.ParentID = rep.ParentID
			}
			reps[id] = b
		}
		children[id] = append(children[id], b.ChildIDs...)
		if parents[id] == "" && b.ParentID != "" {
			parents[id] = res.Canonical(b.ParentID)
		}
	}

	g := &graph{
		tasks:      make(map[string]*task.Task, len(reps)),
		dependents: make(map[string][]string),
	}
	for id, rep := range reps {
		t := task.Decode(rep, sc)
		t.ID = id
		if rep.ParentID != "" {
			parents[id] = res.Canonical(rep.ParentID)
		}
		g.tasks[id] = &t
		g.order = append(g.order, id)
	}
	sort.Strings(g.order)

	// Containment edges, both ends tasks only.
	for _, id := range g.order {
		t := g.tasks[id]
		if pid := parents[id]; pid != "" && pid != id {
			if _, ok := g.tasks[pid]; ok {
				t.ParentTaskID = pid
			}
		}
		t.ChildTaskIDs = canonicalTargets(res, children[id], g.tasks, id)
	}
	// A child may point at its parent without appearing in the parent's
	// child list; add the edge from the other direction for resilience.
	for _, id := range g.order {
		t := g.tasks[id]
		if t.ParentTaskID == "" {
			continue
		}
		parent := g.tasks[t.ParentTaskID]
		if !containsID(parent.ChildTaskIDs, id) {
			parent.ChildTaskIDs = append(parent.ChildTaskIDs, id)
		}
	}

	// Dependency edges. Dangling targets stay in the list; the evaluator
	// treats a target it cannot resolve as imposing no constraint.
	for _, id := range g.order {
		t := g.tasks[id]
		t.DependsOn = canonicalIDs(res, t.DependsOn)
		for _, target := range t.DependsOn {
			if _, ok := g.tasks[target]; ok && target != id {
				g.dependents[target] = append(g.dependents[target], id)
			}
		}
	}
	for target := range g.dependents {
		sort.Strings(g.dependents[target])
	}

	log.Debug().Int("tasks", len(g.tasks)).Int("blocks", len(blocks)).Msg("task graph loaded")
	return g, nil
}

// canonicalTargets canonicalizes raw ids and keeps those present as tasks,
// deduplicated in order, excluding self.
func canonicalTargets(res *block.Resolver, raw []string, tasks map[string]*task.Task, self string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range raw {
		cid := res.Canonical(id)
		if cid == self || seen[cid] {
			continue
		}
		if _, ok := tasks[cid]; !ok {
			continue
		}
		seen[cid] = true
		out = append(out, cid)
	}
	return out
}

// canonicalIDs canonicalizes raw ids, deduplicated in order.
func canonicalIDs(res *block.Resolver, raw []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range raw {
		cid := res.Canonical(id)
		if cid == "" || seen[cid] {
			continue
		}
		seen[cid] = true
		out = append(out, cid)
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
