// Package sqlite provides a store backend over an in-memory SQLite database.
// It exists for SQL parity testing; state stays process-scoped because the
// database lives in memory and dies with the connection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqldocs "todocore/docs/schema/sql"
	"todocore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store keeps todo records in a single-connection in-memory SQLite database.
// AUTOINCREMENT gives the same never-reused id guarantee as the memory
// backend's counter; reads and writes serialize on the one connection.
type Store struct {
	db *sql.DB
}

var _ domain.Store = (*Store)(nil)

// NewStore opens a fresh in-memory database and bootstraps the schema from
// the canonical DDL bundle.
func NewStore() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single pooled connection keeps every statement on the same in-memory
	// database; a second connection would see an empty one.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqldocs.SQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create todos table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. All records are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// List returns every record ordered by id, which equals insertion order
// because ids only grow.
func (s *Store) List(ctx context.Context) ([]domain.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}
	return todos, nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id int64) (domain.Todo, error) {
	var todo domain.Todo
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, completed FROM todos WHERE id = ?`, id).
		Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("select todo %d: %w", id, err)
	}
	return todo, nil
}

// Create validates the input and inserts the record; SQLite assigns the id.
func (s *Store) Create(ctx context.Context, input domain.CreateInput) (domain.Todo, error) {
	if err := input.Validate(); err != nil {
		return domain.Todo{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todos(title, description, completed) VALUES(?, ?, ?)`,
		input.Title, input.Description, input.Completed)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Todo{}, fmt.Errorf("read inserted id: %w", err)
	}
	return domain.Todo{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}, nil
}

// Update reads the current row, applies the supplied fields, and writes the
// result back within one transaction. Invalid input is rejected before the
// id is looked up.
func (s *Store) Update(ctx context.Context, id int64, input domain.UpdateInput) (domain.Todo, error) {
	if err := input.Validate(); err != nil {
		return domain.Todo{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var todo domain.Todo
	err = tx.QueryRowContext(ctx,
		`SELECT id, title, description, completed FROM todos WHERE id = ?`, id).
		Scan(&todo.ID, &todo.Title, &todo.Description, &todo.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Todo{}, domain.NotFoundError{ID: id}
	}
	if err != nil {
		return domain.Todo{}, fmt.Errorf("select todo %d: %w", id, err)
	}

	input.Apply(&todo)

	if _, err := tx.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ? WHERE id = ?`,
		todo.Title, todo.Description, todo.Completed, todo.ID); err != nil {
		return domain.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Todo{}, fmt.Errorf("commit update: %w", err)
	}
	return todo, nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.NotFoundError{ID: id}
	}
	return nil
}
