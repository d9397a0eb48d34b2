package core

import (
	"context"
	"time"
)

// Store operation names used for metrics labels and log fields.
const (
	opListTodos  = "list_todos"
	opGetTodo    = "get_todo"
	opCreateTodo = "create_todo"
	opUpdateTodo = "update_todo"
	opDeleteTodo = "delete_todo"
)

// Service wraps a store backend with structured logging and metrics
// observation. It adds no semantics of its own: store errors pass through
// unchanged so boundaries can classify them.
type Service struct {
	store   Store
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time
}

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger. Nil loggers are ignored.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsRecorder attaches an operation metrics recorder. Nil recorders
// are ignored.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithClock overrides the time source used for duration measurement.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a service backed by the supplied store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  noopLogger{},
		metrics: NoopMetricsRecorder{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() Store {
	return s.store
}

// ListTodos returns every record in insertion order.
func (s *Service) ListTodos(ctx context.Context) ([]Todo, error) {
	started := s.now()
	todos, err := s.store.List(ctx)
	s.finish(ctx, opListTodos, started, err, "count", len(todos))
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo returns the record with the given id.
func (s *Service) GetTodo(ctx context.Context, id int64) (Todo, error) {
	started := s.now()
	todo, err := s.store.Get(ctx, id)
	s.finish(ctx, opGetTodo, started, err, "id", id)
	if err != nil {
		return Todo{}, err
	}
	return todo, nil
}

// CreateTodo persists a new record.
func (s *Service) CreateTodo(ctx context.Context, input CreateInput) (Todo, error) {
	started := s.now()
	todo, err := s.store.Create(ctx, input)
	s.finish(ctx, opCreateTodo, started, err, "id", todo.ID)
	if err != nil {
		return Todo{}, err
	}
	return todo, nil
}

// UpdateTodo applies a partial update to an existing record.
func (s *Service) UpdateTodo(ctx context.Context, id int64, input UpdateInput) (Todo, error) {
	started := s.now()
	todo, err := s.store.Update(ctx, id, input)
	s.finish(ctx, opUpdateTodo, started, err, "id", id)
	if err != nil {
		return Todo{}, err
	}
	return todo, nil
}

// DeleteTodo removes a record.
func (s *Service) DeleteTodo(ctx context.Context, id int64) error {
	started := s.now()
	err := s.store.Delete(ctx, id)
	s.finish(ctx, opDeleteTodo, started, err, "id", id)
	return err
}

// finish records the operation outcome on the metrics recorder and emits one
// log line: Debug on success, Warn on failure.
func (s *Service) finish(ctx context.Context, operation string, started time.Time, err error, keyvals ...any) {
	duration := s.now().Sub(started)
	s.metrics.Observe(ctx, operation, err == nil, duration)

	keyvals = append(keyvals, "operation", operation, "duration_ms", float64(duration)/float64(time.Millisecond))
	if err != nil {
		s.logger.Warn("store operation failed", append(keyvals, "error", err)...)
		return
	}
	s.logger.Debug("store operation complete", keyvals...)
}
