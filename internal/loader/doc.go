// Orbitstats - Entrepreneurship Tool Usage and Course Evaluation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/orbitstats

/*
Package loader reads the platform exports and course data into typed records.

The exports are MongoDB dumps, so identifiers, timestamps and numbers may
appear either as plain JSON values or as extended-JSON wrappers:

	{"_id": {"$oid": "65a..."}}
	{"created": {"$date": "2024-02-01T10:00:00.000Z"}}
	{"views": [{"$numberLong": "1706781600000"}]}

The flexible field types in flex.go accept every one of these shapes and
normalize them to strings or numbers. Each loader skips malformed records
with a debug or warning log line instead of failing the whole file; only a
missing or non-array file is an error (ErrNotList for the latter).

Loaded and skipped counts per dataset are recorded in the
orbitstats_records_loaded_total and orbitstats_records_skipped_total
counters.
*/
package loader
