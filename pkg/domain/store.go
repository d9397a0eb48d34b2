package domain

import "context"

// Store is the authoritative holder of todo records. Implementations
// serialize mutations against each other and against reads, assign ids from
// a monotonically increasing counter, and never reuse an id within a process
// lifetime, including after deletes.
type Store interface {
	// List returns every record in insertion order. An empty store yields an
	// empty slice.
	List(ctx context.Context) ([]Todo, error)
	// Get returns the record with the given id, or NotFoundError.
	Get(ctx context.Context, id int64) (Todo, error)
	// Create validates the input, assigns the next id, applies defaults, and
	// returns the fully populated record.
	Create(ctx context.Context, input CreateInput) (Todo, error)
	// Update overwrites exactly the fields supplied in the input and returns
	// the updated record. The id is immutable.
	Update(ctx context.Context, id int64, input UpdateInput) (Todo, error)
	// Delete removes the record with the given id, or returns NotFoundError.
	Delete(ctx context.Context, id int64) error
}
