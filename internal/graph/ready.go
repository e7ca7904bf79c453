package graph

import (
	"sort"

	"github.com/groblegark/flowtask/internal/model"
)

// Ready returns the tasks that can be worked on right now: status todo with
// every prerequisite done. A task with no prerequisites is trivially ready.
// Prerequisite edges pointing at ids missing from tasks are treated as unmet.
//
// The result is ordered for presentation: tasks with a due date first
// (earlier dates sooner), then higher priority, then lower id.
func Ready(tasks []*model.Task, edges []Edge) []*model.Task {
	statusByID := make(map[int64]model.Status, len(tasks))
	for _, t := range tasks {
		statusByID[t.ID] = t.Status
	}

	prereqs := make(map[int64][]int64)
	for _, e := range edges {
		prereqs[e.TaskID] = append(prereqs[e.TaskID], e.DependsOnID)
	}

	var ready []*model.Task
	for _, t := range tasks {
		if t.Status != model.StatusTodo {
			continue
		}
		met := true
		for _, p := range prereqs[t.ID] {
			if statusByID[p] != model.StatusDone {
				met = false
				break
			}
		}
		if met {
			ready = append(ready, t)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return readyLess(ready[i], ready[j])
	})
	return ready
}

// readyLess implements the presentation order for ready tasks: due-dated
// before undated, earlier due first, higher priority first, lower id last.
func readyLess(a, b *model.Task) bool {
	switch {
	case a.Due != nil && b.Due == nil:
		return true
	case a.Due == nil && b.Due != nil:
		return false
	case a.Due != nil && b.Due != nil && !a.Due.Equal(b.Due.Time):
		return a.Due.Before(*b.Due)
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ID < b.ID
}
