package store

import (
	"context"

	"github.com/groblegark/flowtask/internal/model"
)

// Store defines the persistence interface for tasks and dependency edges.
// The graph engine never touches a Store directly; callers read snapshots
// here and hand plain data to internal/graph.
type Store interface {
	// Task CRUD
	CreateTask(ctx context.Context, task *model.Task) error // assigns ID and timestamps
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	MarkDone(ctx context.Context, id int64) (*model.Task, error)

	// Dependencies
	AddDependency(ctx context.Context, dep *model.Dependency) error
	ListDependencies(ctx context.Context) ([]*model.Dependency, error) // the full edge set
	TaskDependencies(ctx context.Context, taskID int64) ([]*model.Dependency, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	// ListEvents returns the audit trail for one task, or every event
	// (including database-wide ones such as imports) when taskID is 0.
	ListEvents(ctx context.Context, taskID int64) ([]*model.Event, error)

	// ReplaceAll wholesale-replaces tasks and edges (import), preserving
	// the incoming ids. It runs in a single transaction.
	ReplaceAll(ctx context.Context, tasks []*model.Task, deps []*model.Dependency) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
