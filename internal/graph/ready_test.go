package graph

import (
	"testing"

	"github.com/groblegark/flowtask/internal/model"
)

func task(id int64, status model.Status, priority int, due string) *model.Task {
	t := &model.Task{ID: id, Title: "task", Status: status, Priority: priority}
	if due != "" {
		d, err := model.ParseDate(due)
		if err != nil {
			panic(err)
		}
		t.Due = &d
	}
	return t
}

func idsOf(tasks []*model.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*model.Task, want ...int64) {
	t.Helper()
	ids := idsOf(got)
	if len(ids) != len(want) {
		t.Fatalf("ready = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ready = %v, want %v", ids, want)
		}
	}
}

func TestReadyBlockedUntilPrereqDone(t *testing.T) {
	a := task(1, model.StatusTodo, 1, "")
	b := task(2, model.StatusTodo, 1, "")
	es := edges([2]int64{2, 1}) // B depends on A

	assertIDs(t, Ready([]*model.Task{a, b}, es), 1)

	a.Status = model.StatusDone
	assertIDs(t, Ready([]*model.Task{a, b}, es), 2)
}

func TestReadyExcludesDoneTasks(t *testing.T) {
	a := task(1, model.StatusDone, 5, "")
	b := task(2, model.StatusTodo, 0, "")
	assertIDs(t, Ready([]*model.Task{a, b}, nil), 2)
}

func TestReadyZeroPrereqsTriviallyReady(t *testing.T) {
	a := task(1, model.StatusTodo, 0, "")
	assertIDs(t, Ready([]*model.Task{a}, nil), 1)
}

func TestReadyPartiallyMetPrereqsStillBlocked(t *testing.T) {
	a := task(1, model.StatusDone, 0, "")
	b := task(2, model.StatusTodo, 0, "")
	c := task(3, model.StatusTodo, 0, "")
	// C depends on both A (done) and B (todo).
	es := edges([2]int64{3, 1}, [2]int64{3, 2})
	assertIDs(t, Ready([]*model.Task{a, b, c}, es), 2)
}

func TestReadyOrdering(t *testing.T) {
	tasks := []*model.Task{
		task(1, model.StatusTodo, 0, ""),           // no due, low priority
		task(2, model.StatusTodo, 3, ""),           // no due, high priority
		task(3, model.StatusTodo, 0, "2026-09-20"), // later due
		task(4, model.StatusTodo, 0, "2026-09-01"), // earliest due, low priority
		task(5, model.StatusTodo, 9, "2026-09-01"), // earliest due, high priority
		task(6, model.StatusTodo, 3, ""),           // ties with 2 on every key but id
	}

	// Due-dated first (earlier first, priority breaks the tie), then
	// undated by priority, then id.
	assertIDs(t, Ready(tasks, nil), 5, 4, 3, 2, 6, 1)
}

func TestReadyUnknownPrereqCountsAsUnmet(t *testing.T) {
	a := task(1, model.StatusTodo, 0, "")
	// Stale edge points at an id that is not in the task snapshot.
	es := edges([2]int64{1, 99})
	if got := Ready([]*model.Task{a}, es); len(got) != 0 {
		t.Errorf("task with unknown prereq should not be ready, got %v", idsOf(got))
	}
}
