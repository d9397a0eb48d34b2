// Package storetest provides the behavioral contract suite shared by every
// store backend. A backend passes when its observable semantics are
// indistinguishable from the canonical in-memory implementation: insertion
// order listing, monotonic never-reused ids, defaulting, partial updates,
// and the error taxonomy.
package storetest

import (
	"context"
	"errors"
	"testing"

	"todocore/pkg/domain"
)

// Factory builds a fresh, empty store for one subtest.
type Factory func(t *testing.T) domain.Store

// Run exercises the full store contract against the supplied factory. Each
// subtest receives an isolated store.
func Run(t *testing.T, factory Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store lists empty slice", func(t *testing.T) {
		store := factory(t)
		todos, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(todos) != 0 {
			t.Fatalf("expected empty list, got %d records", len(todos))
		}
	})

	t.Run("create assigns id one and defaults", func(t *testing.T) {
		store := factory(t)
		todo, err := store.Create(ctx, domain.CreateInput{Title: "Buy milk"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		want := domain.Todo{ID: 1, Title: "Buy milk", Description: "", Completed: false}
		if todo != want {
			t.Fatalf("created record = %+v, want %+v", todo, want)
		}
	})

	t.Run("create honors supplied optional fields", func(t *testing.T) {
		store := factory(t)
		todo, err := store.Create(ctx, domain.CreateInput{Title: "Call plumber", Description: "kitchen sink", Completed: true})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if todo.Description != "kitchen sink" || !todo.Completed {
			t.Fatalf("optional fields not stored: %+v", todo)
		}
	})

	t.Run("ids increase strictly", func(t *testing.T) {
		store := factory(t)
		var last int64
		for i := 0; i < 5; i++ {
			todo := mustCreate(t, ctx, store, "task")
			if todo.ID <= last {
				t.Fatalf("id %d not greater than previous %d", todo.ID, last)
			}
			last = todo.ID
		}
	})

	t.Run("ids are never reused after delete", func(t *testing.T) {
		store := factory(t)
		first := mustCreate(t, ctx, store, "first")
		second := mustCreate(t, ctx, store, "second")
		if err := store.Delete(ctx, second.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := store.Delete(ctx, first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		third := mustCreate(t, ctx, store, "third")
		if third.ID <= second.ID {
			t.Fatalf("id %d reused after delete, last assigned was %d", third.ID, second.ID)
		}
	})

	t.Run("create rejects empty title", func(t *testing.T) {
		store := factory(t)
		_, err := store.Create(ctx, domain.CreateInput{})
		assertValidation(t, err)
		assertCount(t, ctx, store, 0)
	})

	t.Run("create rejects whitespace title", func(t *testing.T) {
		store := factory(t)
		_, err := store.Create(ctx, domain.CreateInput{Title: "   "})
		assertValidation(t, err)
		assertCount(t, ctx, store, 0)
	})

	t.Run("get returns created record", func(t *testing.T) {
		store := factory(t)
		created := mustCreate(t, ctx, store, "Water plants")
		got, err := store.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got != created {
			t.Fatalf("get = %+v, want %+v", got, created)
		}
	})

	t.Run("get absent id fails with not found", func(t *testing.T) {
		store := factory(t)
		_, err := store.Get(ctx, 99)
		assertNotFound(t, err, 99)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		store := factory(t)
		titles := []string{"one", "two", "three", "four"}
		for _, title := range titles {
			mustCreate(t, ctx, store, title)
		}
		todos, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(todos) != len(titles) {
			t.Fatalf("list length = %d, want %d", len(todos), len(titles))
		}
		for i, title := range titles {
			if todos[i].Title != title {
				t.Fatalf("position %d = %q, want %q", i, todos[i].Title, title)
			}
		}
	})

	t.Run("update partial preserves unspecified fields", func(t *testing.T) {
		store := factory(t)
		created, err := store.Create(ctx, domain.CreateInput{Title: "X"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		completed := true
		updated, err := store.Update(ctx, created.ID, domain.UpdateInput{Completed: &completed})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		want := domain.Todo{ID: created.ID, Title: "X", Description: "", Completed: true}
		if updated != want {
			t.Fatalf("updated record = %+v, want %+v", updated, want)
		}
		got, err := store.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get after update: %v", err)
		}
		if got != want {
			t.Fatalf("stored record = %+v, want %+v", got, want)
		}
	})

	t.Run("update replaces supplied fields", func(t *testing.T) {
		store := factory(t)
		created := mustCreate(t, ctx, store, "old title")
		title := "new title"
		desc := "now with detail"
		updated, err := store.Update(ctx, created.ID, domain.UpdateInput{Title: &title, Description: &desc})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "new title" || updated.Description != "now with detail" {
			t.Fatalf("supplied fields not applied: %+v", updated)
		}
		if updated.ID != created.ID {
			t.Fatalf("id changed on update: %d -> %d", created.ID, updated.ID)
		}
	})

	t.Run("update absent id fails with not found", func(t *testing.T) {
		store := factory(t)
		title := "anything"
		_, err := store.Update(ctx, 7, domain.UpdateInput{Title: &title})
		assertNotFound(t, err, 7)
	})

	t.Run("update rejects empty title", func(t *testing.T) {
		store := factory(t)
		created := mustCreate(t, ctx, store, "keep me")
		empty := ""
		_, err := store.Update(ctx, created.ID, domain.UpdateInput{Title: &empty})
		assertValidation(t, err)
		got, err := store.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get after rejected update: %v", err)
		}
		if got != created {
			t.Fatalf("record changed by rejected update: %+v", got)
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		store := factory(t)
		keep := mustCreate(t, ctx, store, "keep")
		drop := mustCreate(t, ctx, store, "drop")
		if err := store.Delete(ctx, drop.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Get(ctx, drop.ID); domain.KindOf(err) != domain.KindNotFound {
			t.Fatalf("expected not found after delete, got %v", err)
		}
		todos, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(todos) != 1 || todos[0].ID != keep.ID {
			t.Fatalf("list after delete = %+v, want only id %d", todos, keep.ID)
		}
	})

	t.Run("delete absent id fails with not found", func(t *testing.T) {
		store := factory(t)
		mustCreate(t, ctx, store, "present")
		err := store.Delete(ctx, 42)
		assertNotFound(t, err, 42)
		assertCount(t, ctx, store, 1)
	})

	t.Run("delete on empty store fails with not found", func(t *testing.T) {
		store := factory(t)
		err := store.Delete(ctx, 1)
		assertNotFound(t, err, 1)
	})
}

func mustCreate(t *testing.T, ctx context.Context, store domain.Store, title string) domain.Todo {
	t.Helper()
	todo, err := store.Create(ctx, domain.CreateInput{Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return todo
}

func assertCount(t *testing.T, ctx context.Context, store domain.Store, want int) {
	t.Helper()
	todos, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(todos) != want {
		t.Fatalf("store holds %d records, want %d", len(todos), want)
	}
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error, got nil")
	}
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func assertNotFound(t *testing.T, err error, id int64) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected not found error, got nil")
	}
	var nferr domain.NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if nferr.ID != id {
		t.Fatalf("not found id = %d, want %d", nferr.ID, id)
	}
}
