// Package sqlite implements the store.Store interface backed by an embedded
// SQLite database file, the default backend for single-user use.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/groblegark/flowtask/internal/model"
	"github.com/groblegark/flowtask/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements store.Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check that SQLiteStore implements store.Store.
var _ store.Store = (*SQLiteStore)(nil)

// Open opens (creating if necessary) the SQLite database at path, enables
// foreign keys, and runs any pending migrations.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids lock contention.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.db, task)
}

func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id)
}

func (s *SQLiteStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	return queryListTasks(ctx, s.db, filter)
}

func (s *SQLiteStore) MarkDone(ctx context.Context, id int64) (*model.Task, error) {
	return queryMarkDone(ctx, s.db, id)
}

func (s *SQLiteStore) AddDependency(ctx context.Context, dep *model.Dependency) error {
	return queryAddDependency(ctx, s.db, dep)
}

func (s *SQLiteStore) ListDependencies(ctx context.Context) ([]*model.Dependency, error) {
	return queryListDependencies(ctx, s.db)
}

func (s *SQLiteStore) TaskDependencies(ctx context.Context, taskID int64) ([]*model.Dependency, error) {
	return queryTaskDependencies(ctx, s.db, taskID)
}

func (s *SQLiteStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *SQLiteStore) ListEvents(ctx context.Context, taskID int64) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, taskID)
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, tasks []*model.Task, deps []*model.Dependency) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.(*txStore).replaceAll(ctx, tasks, deps)
	})
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *SQLiteStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.tx, task)
}

func (s *txStore) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id)
}

func (s *txStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	return queryListTasks(ctx, s.tx, filter)
}

func (s *txStore) MarkDone(ctx context.Context, id int64) (*model.Task, error) {
	return queryMarkDone(ctx, s.tx, id)
}

func (s *txStore) AddDependency(ctx context.Context, dep *model.Dependency) error {
	return queryAddDependency(ctx, s.tx, dep)
}

func (s *txStore) ListDependencies(ctx context.Context) ([]*model.Dependency, error) {
	return queryListDependencies(ctx, s.tx)
}

func (s *txStore) TaskDependencies(ctx context.Context, taskID int64) ([]*model.Dependency, error) {
	return queryTaskDependencies(ctx, s.tx, taskID)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) ListEvents(ctx context.Context, taskID int64) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx, taskID)
}

func (s *txStore) ReplaceAll(ctx context.Context, tasks []*model.Task, deps []*model.Dependency) error {
	return s.replaceAll(ctx, tasks, deps)
}

func (s *txStore) replaceAll(ctx context.Context, tasks []*model.Task, deps []*model.Dependency) error {
	return queryReplaceAll(ctx, s.tx, tasks, deps)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
