// Package memory provides the canonical in-memory store backend. State is
// process-scoped: created empty at startup and discarded at shutdown.
package memory

import (
	"context"
	"sync"

	"todocore/pkg/domain"
)

// Store holds todo records in insertion order behind a read/write mutex.
// Reads run concurrently with each other but never with a mutation; the id
// counter is touched only under the write lock.
type Store struct {
	mu     sync.RWMutex
	todos  []domain.Todo
	nextID int64
}

var _ domain.Store = (*Store)(nil)

// NewStore constructs an empty store. The first created record receives id 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// List returns a copy of every record in insertion order.
func (s *Store) List(_ context.Context) ([]domain.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Todo, len(s.todos))
	copy(out, s.todos)
	return out, nil
}

// Get returns the record with the given id.
func (s *Store) Get(_ context.Context, id int64) (domain.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, todo := range s.todos {
		if todo.ID == id {
			return todo, nil
		}
	}
	return domain.Todo{}, domain.NotFoundError{ID: id}
}

// Create validates the input, assigns the next id, and appends the record.
func (s *Store) Create(_ context.Context, input domain.CreateInput) (domain.Todo, error) {
	if err := input.Validate(); err != nil {
		return domain.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	todo := domain.Todo{
		ID:          s.nextID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
	}
	s.nextID++
	s.todos = append(s.todos, todo)
	return todo, nil
}

// Update overwrites exactly the supplied fields on the stored record.
// Invalid input is rejected before the id is looked up.
func (s *Store) Update(_ context.Context, id int64, input domain.UpdateInput) (domain.Todo, error) {
	if err := input.Validate(); err != nil {
		return domain.Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			input.Apply(&s.todos[i])
			return s.todos[i], nil
		}
	}
	return domain.Todo{}, domain.NotFoundError{ID: id}
}

// Delete removes the record with the given id. The id is never reused.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{ID: id}
}
