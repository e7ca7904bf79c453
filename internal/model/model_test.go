package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusIsValid(t *testing.T) {
	for _, tc := range []struct {
		status Status
		want   bool
	}{
		{StatusTodo, true},
		{StatusDone, true},
		{Status(""), false},
		{Status("open"), false},
		{Status("DONE"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("Status(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestValidateTask(t *testing.T) {
	valid := func() *Task {
		return &Task{ID: 1, Title: "Write report", Status: StatusTodo}
	}

	t.Run("valid", func(t *testing.T) {
		if err := ValidateTask(valid()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		task := valid()
		task.Title = "   "
		err := ValidateTask(task)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "title: is required") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("title too long", func(t *testing.T) {
		task := valid()
		task.Title = strings.Repeat("x", 501)
		if err := ValidateTask(task); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad status", func(t *testing.T) {
		task := valid()
		task.Status = "wontfix"
		err := ValidateTask(task)
		if err == nil {
			t.Fatal("expected error")
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if len(ve.Errors) != 1 || ve.Errors[0].Field != "status" {
			t.Errorf("errors = %+v", ve.Errors)
		}
	})

	t.Run("multiple failures aggregate", func(t *testing.T) {
		task := &Task{ID: -2, Title: "", Status: "nope"}
		err := ValidateTask(task)
		if err == nil {
			t.Fatal("expected error")
		}
		ve := err.(*ValidationError)
		if len(ve.Errors) != 3 {
			t.Errorf("expected 3 field errors, got %d: %v", len(ve.Errors), ve)
		}
	})
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2026-03-15" {
		t.Errorf("String() = %q", d.String())
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2026-03-15"` {
		t.Errorf("Marshal = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip changed date: %v != %v", back, d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "tomorrow", "2026-3-15", "15/03/2026", "2026-13-01"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestTaskDueOmittedWhenNil(t *testing.T) {
	task := &Task{ID: 7, Title: "No due date", Status: StatusTodo}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"due":null`) {
		t.Errorf("expected explicit null due, got %s", data)
	}
}
