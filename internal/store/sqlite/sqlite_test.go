package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/groblegark/flowtask/internal/model"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// taskRowColumns is the column list for scanTask results.
var taskRowColumns = []string{
	"id", "title", "description", "priority", "due", "status", "tags", "created_at", "updated_at",
}

// addTaskRow adds a task row with text timestamps to a sqlmock.Rows.
func addTaskRow(rows *sqlmock.Rows, id int64, title, status string, priority int, due any, ts string) *sqlmock.Rows {
	return rows.AddRow(id, title, "", priority, due, status, "", ts, ts)
}

func TestTimeRoundTrip(t *testing.T) {
	orig := time.Date(2026, 8, 30, 12, 4, 5, 0, time.UTC)
	s := formatTime(orig)
	if s != "2026-08-30T12:04:05Z" {
		t.Errorf("formatTime = %q", s)
	}
	back, err := parseTime(s)
	if err != nil {
		t.Fatalf("parseTime: %v", err)
	}
	if !back.Equal(orig) {
		t.Errorf("round trip changed time: %v != %v", back, orig)
	}
	if _, err := parseTime("yesterday"); err == nil {
		t.Error("parseTime should reject garbage")
	}
}

func TestNullDate(t *testing.T) {
	if nullDate(nil).Valid {
		t.Error("nullDate(nil) should be invalid")
	}
	d, _ := model.ParseDate("2026-09-01")
	nd := nullDate(&d)
	if !nd.Valid || nd.String != "2026-09-01" {
		t.Errorf("nullDate = %v", nd)
	}
}

func TestQueryCreateTask(t *testing.T) {
	db, mock := newMockDB(t)
	task := &model.Task{Title: "Write report", Priority: 2, Tags: "work"}

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs("Write report", "", 2, sqlmock.AnyArg(), "todo", "work", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	if err := queryCreateTask(context.Background(), db, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 42 {
		t.Errorf("ID = %d, want 42", task.ID)
	}
	if task.Status != model.StatusTodo {
		t.Errorf("Status = %q, want todo", task.Status)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}
}

func TestQueryGetTask(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(taskRowColumns)
	addTaskRow(rows, 7, "Read paper", "todo", 1, "2026-09-15", "2026-08-30T10:00:00Z")
	mock.ExpectQuery("SELECT .+ FROM tasks WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	task, err := queryGetTask(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 7 || task.Title != "Read paper" {
		t.Errorf("task = %+v", task)
	}
	if task.Due == nil || task.Due.String() != "2026-09-15" {
		t.Errorf("due = %v", task.Due)
	}
}

func TestQueryGetTaskNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM tasks WHERE id = ?").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := queryGetTask(context.Background(), db, 99)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestQueryListTasksStatusFilter(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(taskRowColumns)
	addTaskRow(rows, 1, "A", "todo", 0, nil, "2026-08-30T10:00:00Z")
	addTaskRow(rows, 2, "B", "todo", 0, nil, "2026-08-30T10:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE status IN \(\?\) ORDER BY id ASC`).
		WithArgs("todo").
		WillReturnRows(rows)

	tasks, err := queryListTasks(context.Background(), db, model.TaskFilter{Status: []model.Status{model.StatusTodo}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 2 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestQueryListTasksOffsetWithoutLimit(t *testing.T) {
	db, mock := newMockDB(t)

	// SQLite rejects a bare OFFSET; the query must carry LIMIT -1.
	rows := sqlmock.NewRows(taskRowColumns)
	addTaskRow(rows, 3, "C", "todo", 0, nil, "2026-08-30T10:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM tasks ORDER BY id ASC LIMIT -1 OFFSET \?`).
		WithArgs(2).
		WillReturnRows(rows)

	tasks, err := queryListTasks(context.Background(), db, model.TaskFilter{Offset: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 3 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestQueryListTasksLimitAndOffset(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(taskRowColumns)
	addTaskRow(rows, 2, "B", "todo", 0, nil, "2026-08-30T10:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM tasks ORDER BY id ASC LIMIT \? OFFSET \?`).
		WithArgs(1, 1).
		WillReturnRows(rows)

	tasks, err := queryListTasks(context.Background(), db, model.TaskFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != 2 {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestQueryMarkDone(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(taskRowColumns)
	addTaskRow(rows, 3, "Ship it", "done", 0, nil, "2026-08-30T10:00:00Z")
	mock.ExpectQuery("UPDATE tasks").
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnRows(rows)

	task, err := queryMarkDone(context.Background(), db, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Status != model.StatusDone {
		t.Errorf("status = %q", task.Status)
	}
}

func TestQueryAddDependency(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("INSERT INTO deps").
		WithArgs(int64(2), int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow("2026-08-30T10:00:00Z"))

	dep := &model.Dependency{TaskID: 2, DependsOnID: 1}
	if err := queryAddDependency(context.Background(), db, dep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if !dep.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want stored %v", dep.CreatedAt, want)
	}
}

func TestQueryAddDependencyDuplicateKeepsStoredTimestamp(t *testing.T) {
	db, mock := newMockDB(t)

	// ON CONFLICT DO NOTHING returns no row for an existing edge.
	mock.ExpectQuery("INSERT INTO deps").
		WithArgs(int64(2), int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	dep := &model.Dependency{TaskID: 2, DependsOnID: 1}
	if err := queryAddDependency(context.Background(), db, dep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dep.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero for an existing edge", dep.CreatedAt)
	}
}

func TestQueryListDependencies(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"task_id", "depends_on_id", "created_at"}).
		AddRow(int64(2), int64(1), "2026-08-30T10:00:00Z").
		AddRow(int64(3), int64(2), "2026-08-30T10:01:00Z")
	mock.ExpectQuery("SELECT .+ FROM deps").
		WillReturnRows(rows)

	deps, err := queryListDependencies(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 || deps[0].TaskID != 2 || deps[1].DependsOnID != 2 {
		t.Errorf("deps = %+v", deps)
	}
}

func TestQueryRecordEvent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO events").
		WithArgs("task.done", int64(5), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	event := &model.Event{Topic: "task.done", TaskID: 5}
	if err := queryRecordEvent(context.Background(), db, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID != 11 {
		t.Errorf("ID = %d, want 11", event.ID)
	}
}

func TestQueryListEventsForTask(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"id", "topic", "task_id", "payload", "created_at"}).
		AddRow(int64(1), "task.created", int64(5), nil, "2026-08-30T10:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM events WHERE task_id = \? ORDER BY id ASC`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	events, err := queryListEvents(context.Background(), db, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Topic != "task.created" {
		t.Errorf("events = %+v", events)
	}
}

func TestQueryListEventsAll(t *testing.T) {
	db, mock := newMockDB(t)

	// taskID 0 lists everything, including import events recorded with
	// task id 0.
	rows := sqlmock.NewRows([]string{"id", "topic", "task_id", "payload", "created_at"}).
		AddRow(int64(1), "task.created", int64(5), nil, "2026-08-30T10:00:00Z").
		AddRow(int64(2), "imported", int64(0), []byte(`{"tasks":2,"deps":1}`), "2026-08-30T11:00:00Z")
	mock.ExpectQuery(`SELECT .+ FROM events ORDER BY id ASC`).
		WillReturnRows(rows)

	events, err := queryListEvents(context.Background(), db, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[1].Topic != "imported" || events[1].TaskID != 0 {
		t.Errorf("events = %+v", events)
	}
}

func TestQueryReplaceAll(t *testing.T) {
	db, mock := newMockDB(t)
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM deps").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM tasks").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(int64(1), "A", "", 0, sqlmock.AnyArg(), "done", "", "2026-08-30T10:00:00Z", "2026-08-30T10:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(int64(2), "B", "", 0, sqlmock.AnyArg(), "todo", "", "2026-08-30T10:00:00Z", "2026-08-30T10:00:00Z").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO deps").
		WithArgs(int64(2), int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tasks := []*model.Task{
		{ID: 1, Title: "A", Status: model.StatusDone, CreatedAt: ts, UpdatedAt: ts},
		{ID: 2, Title: "B", Status: model.StatusTodo, CreatedAt: ts, UpdatedAt: ts},
	}
	deps := []*model.Dependency{{TaskID: 2, DependsOnID: 1}}

	if err := queryReplaceAll(context.Background(), db, tasks, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
