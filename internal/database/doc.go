// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

// Package database writes the normalized datasets to a DuckDB file so the
// thesis figures can be reproduced with plain SQL.
//
// # Overview
//
// The export is a snapshot: every Export call replaces the table contents in
// one transaction. Nothing in the analysis reads back from DuckDB; the file
// is an artifact next to the JSON results.
//
// Files:
//   - database.go: connection lifecycle (open, pool, checkpoint, close)
//   - schema.go: table creation
//   - export.go: snapshot writes for users, ideas, steps, evaluation scores and categories
//   - summaries.go: aggregate queries over the snapshot
//
// # Database Technology
//
// DuckDB through the database/sql driver github.com/duckdb/duckdb-go/v2
// (CGO). An empty or ":memory:" path keeps the database in memory, which is
// what the tests use.
package database
