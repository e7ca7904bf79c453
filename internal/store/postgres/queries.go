package postgres

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

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	return db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, priority, due, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		t.Title,
		t.Description,
		t.Priority,
		nullDate(t.Due),
		string(t.Status),
		t.Tags,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func queryGetTask(ctx context.Context, db executor, id int64) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	if filter.Tag != "" {
		p := nextArg()
		whereClauses = append(whereClauses, fmt.Sprintf("tags ILIKE '%%' || %s || '%%'", p))
		args = append(args, filter.Tag)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY id ASC"

	if filter.Limit > 0 {
		query += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + nextArg()
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
		SET status = 'done', updated_at = NOW()
		WHERE id = $1
		RETURNING `+taskColumns,
		id,
	)
	return scanTask(row)
}

func queryAddDependency(ctx context.Context, db executor, dep *model.Dependency) error {
	err := db.QueryRowContext(ctx, `
		INSERT INTO deps (task_id, depends_on_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING created_at`,
		dep.TaskID,
		dep.DependsOnID,
	).Scan(&dep.CreatedAt)
	if err == sql.ErrNoRows {
		// Edge already present; edges are a set.
		return nil
	}
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
		WHERE task_id = $1`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, task_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		e.Topic, e.TaskID, payloadBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryListEvents(ctx context.Context, db executor, taskID int64) ([]*model.Event, error) {
	query := `SELECT id, topic, task_id, payload, created_at FROM events`
	var args []any
	if taskID > 0 {
		query += ` WHERE task_id = $1`
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

// queryReplaceAll clears both tables, inserts the incoming snapshot with its
// original ids, and resets the id sequence past the highest imported id.
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
			createdAt = time.Now().UTC()
		}
		updatedAt := t.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
		_, err := db.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, priority, due, status, tags, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID,
			t.Title,
			t.Description,
			t.Priority,
			nullDate(t.Due),
			string(t.Status),
			t.Tags,
			createdAt,
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}

	for _, d := range deps {
		_, err := db.ExecContext(ctx, `
			INSERT INTO deps (task_id, depends_on_id)
			VALUES ($1, $2)`,
			d.TaskID, d.DependsOnID,
		)
		if err != nil {
			return fmt.Errorf("insert dep (%d, %d): %w", d.TaskID, d.DependsOnID, err)
		}
	}

	if _, err := db.ExecContext(ctx, `
		SELECT setval(pg_get_serial_sequence('tasks', 'id'),
			COALESCE((SELECT MAX(id) FROM tasks), 0) + 1, false)`); err != nil {
		return fmt.Errorf("reset tasks sequence: %w", err)
	}

	return nil
}
