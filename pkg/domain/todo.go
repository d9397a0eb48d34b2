// Package domain defines the todo record, its input payloads, the error
// taxonomy, and the storage contract shared by every todocore component.
package domain

import "strings"

// Todo is the unit record managed by the store.
type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// CreateInput carries the caller-supplied fields for a new todo. Fields
// absent from the decoded payload keep their zero values, which match the
// documented defaults (empty description, not completed).
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Validate reports whether the input can produce a valid stored record.
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// UpdateInput describes a partial update. Pointer fields distinguish
// "absent" from a zero value; nil fields leave the stored value untouched.
type UpdateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Validate rejects updates that would leave the stored record invalid.
// Omitted fields are not re-checked; they keep their previously valid values.
func (in UpdateInput) Validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// Apply copies the supplied fields onto the record and leaves the rest
// untouched. The record id is never part of an update.
func (in UpdateInput) Apply(t *Todo) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
}
