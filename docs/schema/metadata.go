// Package schema exposes embedded API metadata (version) for runtime use.
package schema

import (
	_ "embed"
	"encoding/json"
	"sync"
)

// Metadata captures the high-level metadata block from the canonical API
// version document.
type Metadata struct {
	Source string `json:"source"`
	Status string `json:"status"`
}

type versionDoc struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
}

// API version content embedded for runtime metadata exposure.
//
//go:embed api-version.json
var apiVersion []byte

var (
	docOnce sync.Once
	doc     versionDoc
	docErr  error
)

func load() (versionDoc, error) {
	docOnce.Do(func() {
		docErr = json.Unmarshal(apiVersion, &doc)
	})
	return doc, docErr
}

// APIVersion returns the canonical API version declared in the embedded
// document (source of truth: docs/schema/openapi/todo-api.yaml).
func APIVersion() (string, error) {
	d, err := load()
	return d.Version, err
}

// APIMetadata returns the metadata (status, source) declared alongside the
// version.
func APIMetadata() (Metadata, error) {
	d, err := load()
	return d.Metadata, err
}
