package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todocore/docs/schema/openapi"
	"todocore/internal/core"
	"todocore/internal/infra/persistence/memory"
	"todocore/pkg/domain"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	return New(core.NewService(memory.NewStore()), opts...)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) domain.Todo {
	t.Helper()
	var todo domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todo); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	return todo
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func TestRootReportsService(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode root payload: %v", err)
	}
	if payload["service"] != "todocore" || payload["status"] != "ok" {
		t.Fatalf("unexpected root payload: %v", payload)
	}
}

func TestOpenAPIDocumentServed(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/openapi.yaml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("expected application/yaml, got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), openapi.Spec()) {
		t.Fatal("served document does not match embedded spec")
	}
}

func TestListEmptyCollectionIsArray(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/todos/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	h := newTestHandler(t)

	rec := do(h, http.MethodPost, "/todos/", `{"title":"Buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	first := decodeTodo(t, rec)
	if first.ID != 1 || first.Title != "Buy milk" || first.Description != "" || first.Completed {
		t.Fatalf("unexpected first todo: %+v", first)
	}

	second := decodeTodo(t, do(h, http.MethodPost, "/todos/", `{"title":"Walk dog"}`))
	if second.ID != 2 {
		t.Fatalf("expected id 2, got %d", second.ID)
	}
}

func TestCreateResponseCarriesAllFields(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPost, "/todos/", `{"title":"Buy milk"}`)

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode raw payload: %v", err)
	}
	for _, key := range []string{"id", "title", "description", "completed"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("response is missing %q: %v", key, raw)
		}
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPost, "/todos/", `{"title":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != string(domain.KindValidation) {
		t.Fatalf("expected validation_error, got %q", env.Error)
	}
	if env.Message == "" {
		t.Fatal("expected a human-readable message")
	}

	if got := strings.TrimSpace(do(h, http.MethodGet, "/todos/", "").Body.String()); got != "[]" {
		t.Fatalf("rejected create must not store anything, got %q", got)
	}
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPost, "/todos/", `{"title":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != string(domain.KindValidation) {
		t.Fatalf("expected validation_error, got %q", env.Error)
	}
}

func TestCreateEmptyBodyFailsTitleValidation(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPost, "/todos/", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != string(domain.KindValidation) {
		t.Fatalf("expected validation_error, got %q", env.Error)
	}
}

func TestGetReturnsRecord(t *testing.T) {
	h := newTestHandler(t)
	created := decodeTodo(t, do(h, http.MethodPost, "/todos/", `{"title":"Buy milk","description":"2L","completed":true}`))

	rec := do(h, http.MethodGet, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeTodo(t, rec); got != created {
		t.Fatalf("expected %+v, got %+v", created, got)
	}
}

func TestGetUnknownID(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/todos/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != string(domain.KindNotFound) {
		t.Fatalf("expected not_found, got %q", env.Error)
	}
	if !strings.Contains(env.Message, "99") {
		t.Fatalf("expected message to name the id, got %q", env.Message)
	}
}

func TestGetNonIntegerID(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/todos/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != string(domain.KindValidation) {
		t.Fatalf("expected validation_error, got %q", env.Error)
	}
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	h := newTestHandler(t)
	do(h, http.MethodPost, "/todos/", `{"title":"Buy milk","description":"2L"}`)

	rec := do(h, http.MethodPut, "/todos/1", `{"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeTodo(t, rec)
	want := domain.Todo{ID: 1, Title: "Buy milk", Description: "2L", Completed: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestUpdateEmptyBodyLeavesRecordUnchanged(t *testing.T) {
	h := newTestHandler(t)
	created := decodeTodo(t, do(h, http.MethodPost, "/todos/", `{"title":"Buy milk"}`))

	rec := do(h, http.MethodPut, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeTodo(t, rec); got != created {
		t.Fatalf("expected %+v, got %+v", created, got)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPut, "/todos/7", `{"title":"New"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateBlankTitleRejectedAndRecordKept(t *testing.T) {
	h := newTestHandler(t)
	created := decodeTodo(t, do(h, http.MethodPost, "/todos/", `{"title":"Buy milk"}`))

	rec := do(h, http.MethodPut, "/todos/1", `{"title":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeTodo(t, do(h, http.MethodGet, "/todos/1", "")); got != created {
		t.Fatalf("record changed after rejected update: %+v", got)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	h := newTestHandler(t)
	do(h, http.MethodPost, "/todos/", `{"title":"Buy milk"}`)

	rec := do(h, http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode delete payload: %v", err)
	}
	if !payload["deleted"] {
		t.Fatalf("expected deleted=true, got %v", payload)
	}

	if rec := do(h, http.MethodGet, "/todos/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodDelete, "/todos/12", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestIDsAreNotReusedAcrossDeletes(t *testing.T) {
	h := newTestHandler(t)
	do(h, http.MethodPost, "/todos/", `{"title":"first"}`)
	do(h, http.MethodPost, "/todos/", `{"title":"second"}`)
	do(h, http.MethodDelete, "/todos/2", "")

	got := decodeTodo(t, do(h, http.MethodPost, "/todos/", `{"title":"third"}`))
	if got.ID != 3 {
		t.Fatalf("expected id 3 after deleting id 2, got %d", got.ID)
	}
}

func TestCollectionPathAcceptsBothSlashForms(t *testing.T) {
	h := newTestHandler(t)

	if rec := do(h, http.MethodPost, "/todos", `{"title":"Buy milk"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on bare path, got %d", rec.Code)
	}
	for _, target := range []string{"/todos", "/todos/"} {
		rec := do(h, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d", target, rec.Code)
		}
		var todos []domain.Todo
		if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
			t.Fatalf("decode list from %s: %v", target, err)
		}
		if len(todos) != 1 {
			t.Fatalf("expected 1 todo from %s, got %d", target, len(todos))
		}
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	h := newTestHandler(t)
	for _, title := range []string{"first", "second", "third"} {
		do(h, http.MethodPost, "/todos/", `{"title":"`+title+`"}`)
	}

	rec := do(h, http.MethodGet, "/todos/", "")
	var todos []domain.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(todos) != len(want) {
		t.Fatalf("expected %d todos, got %d", len(want), len(todos))
	}
	for i, title := range want {
		if todos[i].Title != title {
			t.Fatalf("expected %q at index %d, got %q", title, i, todos[i].Title)
		}
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != string(domain.KindNotFound) {
		t.Fatalf("expected not_found, got %q", env.Error)
	}
}

func TestMethodNotAllowedUsesEnvelope(t *testing.T) {
	h := newTestHandler(t)
	rec := do(h, http.MethodPatch, "/todos/1", `{}`)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error != string(kindMethodNotAllowed) {
		t.Fatalf("expected method_not_allowed, got %q", env.Error)
	}
}
