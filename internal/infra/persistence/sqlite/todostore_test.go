package sqlite_test

import (
	"context"
	"testing"

	"todocore/internal/infra/persistence/sqlite"
	"todocore/pkg/domain"
	"todocore/testutil/storetest"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.NewStore()
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return newStore(t)
	})
}

func TestAutoincrementSkipsDeletedIDs(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := store.Create(ctx, domain.CreateInput{Title: title}); err != nil {
			t.Fatalf("create %q: %v", title, err)
		}
	}
	if err := store.Delete(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}

	todo, err := store.Create(ctx, domain.CreateInput{Title: "d"})
	if err != nil {
		t.Fatalf("create after delete: %v", err)
	}
	if todo.ID != 4 {
		t.Fatalf("expected id 4 after deleting id 3, got %d", todo.ID)
	}
}

func TestStateIsPerStore(t *testing.T) {
	ctx := context.Background()
	first := newStore(t)
	second := newStore(t)

	if _, err := first.Create(ctx, domain.CreateInput{Title: "only in first"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	todos, err := second.List(ctx)
	if err != nil {
		t.Fatalf("list second store: %v", err)
	}
	if len(todos) != 0 {
		t.Fatalf("expected isolated databases, second store holds %d records", len(todos))
	}
}

func TestCloseDiscardsState(t *testing.T) {
	store, err := sqlite.NewStore()
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Create(ctx, domain.CreateInput{Title: "ephemeral"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := store.List(ctx); err == nil {
		t.Fatalf("expected error listing a closed store")
	}
}
