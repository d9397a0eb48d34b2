// Package sqldocs exposes the canonical todos DDL directly from the docs
// tree. The sqlite backend bootstraps from this bundle, so the documented
// schema and the running one cannot drift apart.
package sqldocs

import _ "embed"

// SQLite contains the todos table DDL applied by the sqlite store.
//
//go:embed todos.sql
var SQLite string
