// Package syncer keeps a client-side view of the todo collection reconciled
// against the server's authoritative state.
//
// Every mutation is tracked as an Action moving through an explicit state
// machine: pending on dispatch, then reconciled or failed when the server
// answers. The local view only ever changes on success; a failure leaves the
// previous consistent state intact. Overlapping requests are not deduplicated
// and carry no ordering guarantee; when two in-flight actions target the same
// record, the last response to arrive wins.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todocore/internal/core"
	"todocore/pkg/domain"
)

// State labels one phase of an action's lifecycle.
type State string

// Action lifecycle states.
const (
	StateIdle       State = "idle"
	StatePending    State = "pending"
	StateReconciled State = "reconciled"
	StateFailed     State = "failed"
)

// ActionKind names the operation an action tracks.
type ActionKind string

// Tracked operation kinds.
const (
	ActionLoad   ActionKind = "load"
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Action records one tracked operation from dispatch to its terminal state.
type Action struct {
	ID        uuid.UUID
	Kind      ActionKind
	TodoID    int64 // 0 for load, and for create until the server assigns one
	State     State
	StartedAt time.Time
	EndedAt   time.Time
	Err       error // terminal failure, nil when reconciled
}

// DefaultHistoryLimit bounds how many settled actions are retained.
const DefaultHistoryLimit = 32

// Synchronizer mirrors the server's collection into a local view and tracks
// every mutation it dispatches. All methods are safe for concurrent use; the
// internal mutex is never held across a network call.
type Synchronizer struct {
	store      domain.Store
	logger     core.Logger
	clock      func() time.Time
	historyCap int

	mu       sync.Mutex
	todos    []domain.Todo
	loaded   bool
	inFlight int
	history  []Action
}

// Option customises synchronizer construction.
type Option func(*Synchronizer)

// WithLogger attaches a structured logger. Nil loggers are ignored.
func WithLogger(logger core.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source stamped onto actions.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithHistoryLimit bounds the retained action history. Limits below one are
// ignored.
func WithHistoryLimit(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.historyCap = n
		}
	}
}

// New builds a synchronizer over the given store, usually a REST client.
func New(store domain.Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:      store,
		logger:     core.NopLogger(),
		clock:      time.Now,
		historyCap: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the full authoritative list and replaces the local view
// wholesale. On failure the view keeps its previous contents; before the
// first successful load that means it stays empty.
func (s *Synchronizer) Load(ctx context.Context) error {
	action := s.begin(ActionLoad, 0)
	todos, err := s.store.List(ctx)
	if err != nil {
		s.resolve(action, err, nil)
		return err
	}
	s.resolve(action, nil, func() {
		s.todos = todos
		s.loaded = true
	})
	return nil
}

// Create dispatches a create and inserts the server-assigned record into the
// local view on success.
func (s *Synchronizer) Create(ctx context.Context, input domain.CreateInput) (domain.Todo, error) {
	action := s.begin(ActionCreate, 0)
	todo, err := s.store.Create(ctx, input)
	if err != nil {
		s.resolve(action, err, nil)
		return domain.Todo{}, err
	}
	action.TodoID = todo.ID
	s.resolve(action, nil, func() { s.upsertLocked(todo) })
	return todo, nil
}

// Update dispatches a partial update and overwrites the targeted record with
// the server's response on success.
func (s *Synchronizer) Update(ctx context.Context, id int64, input domain.UpdateInput) (domain.Todo, error) {
	action := s.begin(ActionUpdate, id)
	todo, err := s.store.Update(ctx, id, input)
	if err != nil {
		s.resolve(action, err, nil)
		return domain.Todo{}, err
	}
	s.resolve(action, nil, func() { s.upsertLocked(todo) })
	return todo, nil
}

// Delete dispatches a delete and removes the record from the local view on
// success.
func (s *Synchronizer) Delete(ctx context.Context, id int64) error {
	action := s.begin(ActionDelete, id)
	err := s.store.Delete(ctx, id)
	if err != nil {
		s.resolve(action, err, nil)
		return err
	}
	s.resolve(action, nil, func() { s.removeLocked(id) })
	return nil
}

// Snapshot returns a copy of the local view in server listing order.
func (s *Synchronizer) Snapshot() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Loaded reports whether an initial load has succeeded.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// InFlight returns the number of dispatched actions awaiting a response.
func (s *Synchronizer) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// History returns a copy of the retained settled actions, oldest first.
func (s *Synchronizer) History() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.history))
	copy(out, s.history)
	return out
}

// begin registers a dispatched action and marks it pending.
func (s *Synchronizer) begin(kind ActionKind, todoID int64) Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight++
	return Action{
		ID:        uuid.New(),
		Kind:      kind,
		TodoID:    todoID,
		State:     StatePending,
		StartedAt: s.clock(),
	}
}

// resolve settles an action: on success apply mutates the local view under
// the lock, on failure the view is untouched. The settled action joins the
// bounded history either way.
func (s *Synchronizer) resolve(action Action, err error, apply func()) {
	s.mu.Lock()
	s.inFlight--
	action.EndedAt = s.clock()
	if err != nil {
		action.State = StateFailed
		action.Err = err
	} else {
		action.State = StateReconciled
		if apply != nil {
			apply()
		}
	}
	s.pushHistoryLocked(action)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("action failed", "action", string(action.Kind), "todo_id", action.TodoID, "error", err)
		return
	}
	s.logger.Debug("action reconciled", "action", string(action.Kind), "todo_id", action.TodoID)
}

// upsertLocked overwrites the record with a matching id, or inserts it at
// its id-ordered position. Server listings are id-ordered, so the local
// view stays identical to what a reload would produce.
func (s *Synchronizer) upsertLocked(todo domain.Todo) {
	for i := range s.todos {
		if s.todos[i].ID == todo.ID {
			s.todos[i] = todo
			return
		}
	}
	at := len(s.todos)
	for i := range s.todos {
		if s.todos[i].ID > todo.ID {
			at = i
			break
		}
	}
	s.todos = append(s.todos, domain.Todo{})
	copy(s.todos[at+1:], s.todos[at:])
	s.todos[at] = todo
}

func (s *Synchronizer) removeLocked(id int64) {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return
		}
	}
}

func (s *Synchronizer) pushHistoryLocked(action Action) {
	s.history = append(s.history, action)
	if len(s.history) > s.historyCap {
		s.history = s.history[len(s.history)-s.historyCap:]
	}
}
