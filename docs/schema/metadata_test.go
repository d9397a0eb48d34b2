package schema

import (
	"bytes"
	"encoding/json"
	"testing"

	"todocore/docs/schema/openapi"
)

func TestAPIVersion(t *testing.T) {
	got, err := APIVersion()
	if err != nil {
		t.Fatalf("APIVersion: %v", err)
	}
	if got == "" {
		t.Fatal("expected non-empty API version")
	}

	var doc versionDoc
	if err := json.Unmarshal(apiVersion, &doc); err != nil {
		t.Fatalf("unmarshal version document: %v", err)
	}
	if got != doc.Version {
		t.Fatalf("version mismatch: got %q want %q", got, doc.Version)
	}
}

func TestAPIVersionMatchesOpenAPIDocument(t *testing.T) {
	ver, err := APIVersion()
	if err != nil {
		t.Fatalf("APIVersion: %v", err)
	}
	if !bytes.Contains(openapi.Spec(), []byte("version: "+ver)) {
		t.Fatalf("openapi document does not declare version %q", ver)
	}
}

func TestAPIMetadata(t *testing.T) {
	got, err := APIMetadata()
	if err != nil {
		t.Fatalf("APIMetadata: %v", err)
	}
	if got.Status == "" || got.Source == "" {
		t.Fatalf("expected status and source, got %+v", got)
	}
	if got.Source != "docs/schema/openapi/todo-api.yaml" {
		t.Fatalf("unexpected source %q", got.Source)
	}
}
