package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/groblegark/flowtask/internal/model"
)

// taskColumns is the column list used for SELECT statements on the tasks table.
const taskColumns = `id, title, description, priority, due, status, tags, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// now returns the current UTC time truncated to whole seconds, the precision
// the text timestamp columns carry.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	ts := now()
	t.CreatedAt = ts
	t.UpdatedAt = ts
	if t.Status == "" {
		t.Status = model.StatusTodo
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO tasks (title, description, priority, due, status, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title,
		t.Description,
		t.Priority,
		nullDate(t.Due),
		string(t.Status),
		t.Tags,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return nil
}

func queryGetTask(ctx context.Context, db executor, id int64) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, error) {
	var (
		whereClauses []string
		args         []any
	)

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Search != "" {
		whereClauses = append(whereClauses,
			"(title LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')")
		args = append(args, filter.Search, filter.Search)
	}

	if filter.Tag != "" {
		whereClauses = append(whereClauses, "tags LIKE '%' || ? || '%'")
		args = append(args, filter.Tag)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY id ASC"

	// SQLite only accepts OFFSET as part of a LIMIT clause; -1 means no limit.
	switch {
	case filter.Limit > 0:
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	case filter.Offset > 0:
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func queryMarkDone(ctx context.Context, db executor, id int64) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE tasks
		SET status = 'done', updated_at = ?
		WHERE id = ?
		RETURNING `+taskColumns,
		formatTime(now()), id,
	)
	return scanTask(row)
}

func queryAddDependency(ctx context.Context, db executor, dep *model.Dependency) error {
	ts := dep.CreatedAt
	if ts.IsZero() {
		ts = now()
	}
	var createdAt string
	err := db.QueryRowContext(ctx, `
		INSERT INTO deps (task_id, depends_on_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING created_at`,
		dep.TaskID,
		dep.DependsOnID,
		formatTime(ts),
	).Scan(&createdAt)
	if err == sql.ErrNoRows {
		// Edge already present; edges are a set. The stored row keeps its
		// original timestamp, so leave dep.CreatedAt untouched.
		return nil
	}
	if err != nil {
		return err
	}
	dep.CreatedAt, err = parseTime(createdAt)
	return err
}

func queryListDependencies(ctx context.Context, db executor) ([]*model.Dependency, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT task_id, depends_on_id, created_at
		FROM deps`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func queryTaskDependencies(ctx context.Context, db executor, taskID int64) ([]*model.Dependency, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT task_id, depends_on_id, created_at
		FROM deps
		WHERE task_id = ?`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	e.CreatedAt = now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO events (topic, task_id, payload, created_at)
		VALUES (?, ?, ?, ?)`,
		e.Topic,
		e.TaskID,
		nullPayload(e.Payload),
		formatTime(e.CreatedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return nil
}

func queryListEvents(ctx context.Context, db executor, taskID int64) ([]*model.Event, error) {
	query := `SELECT id, topic, task_id, payload, created_at FROM events`
	var args []any
	if taskID > 0 {
		query += ` WHERE task_id = ?`
		args = append(args, taskID)
	}
	query += ` ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// queryReplaceAll clears both tables and inserts the incoming snapshot with
// its original ids. Deps go first on delete (foreign keys) and last on insert.
func queryReplaceAll(ctx context.Context, db executor, tasks []*model.Task, deps []*model.Dependency) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM deps`); err != nil {
		return fmt.Errorf("clear deps: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	for _, t := range tasks {
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = now()
		}
		updatedAt := t.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, priority, due, status, tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID,
			t.Title,
			t.Description,
			t.Priority,
			nullDate(t.Due),
			string(t.Status),
			t.Tags,
			formatTime(createdAt),
			formatTime(updatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}

	for _, d := range deps {
		createdAt := d.CreatedAt
		if createdAt.IsZero() {
			createdAt = now()
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO deps (task_id, depends_on_id, created_at)
			VALUES (?, ?, ?)`,
			d.TaskID, d.DependsOnID, formatTime(createdAt),
		)
		if err != nil {
			return fmt.Errorf("insert dep (%d, %d): %w", d.TaskID, d.DependsOnID, err)
		}
	}

	return nil
}
