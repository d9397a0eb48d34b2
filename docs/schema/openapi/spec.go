// Package openapi embeds the todocore OpenAPI document for runtime
// distribution.
package openapi

import _ "embed"

// TodoAPISpec contains the OpenAPI description of the todocore REST surface.
//
//go:embed todo-api.yaml
var TodoAPISpec []byte

// Spec returns a defensive copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), TodoAPISpec...)
}
