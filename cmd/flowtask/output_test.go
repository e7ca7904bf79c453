package main

import (
	"testing"
	"time"

	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/ui"
)

func TestParseTaskID(t *testing.T) {
	if _, err := parseTaskID("12"); err != nil {
		t.Errorf("parseTaskID(12): %v", err)
	}
	for _, bad := range []string{"0", "-3", "abc", "1.5", ""} {
		if _, err := parseTaskID(bad); err == nil {
			t.Errorf("parseTaskID(%q): expected error", bad)
		}
	}
}

func TestOverdue(t *testing.T) {
	yesterday := model.Date{Time: time.Now().UTC().AddDate(0, 0, -1)}
	tomorrow := model.Date{Time: time.Now().UTC().AddDate(0, 0, 1)}

	tests := []struct {
		name string
		task *model.Task
		want bool
	}{
		{"past due todo", &model.Task{Status: model.StatusTodo, Due: &yesterday}, true},
		{"future due", &model.Task{Status: model.StatusTodo, Due: &tomorrow}, false},
		{"past due but done", &model.Task{Status: model.StatusDone, Due: &yesterday}, false},
		{"no due date", &model.Task{Status: model.StatusTodo}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overdue(tt.task); got != tt.want {
				t.Errorf("overdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusCellPlainWithoutColor(t *testing.T) {
	ui.ForceNoColor()
	task := &model.Task{Status: model.StatusDone}
	if got := statusCell(task); got != "done" {
		t.Errorf("statusCell() = %q, want %q", got, "done")
	}
}
