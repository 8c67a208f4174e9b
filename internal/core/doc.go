// Package core provides the domain model and data-loading service for the
// carrier viewer.
//
// This package is independent of any UI or transport layer. The web server,
// the terminal viewer and the tests all go through the same [Service].
//
// # Records
//
// A [Record] is one carrier row from the dataset: a flat mapping of CSV
// header names to raw string values. Values are never coerced, so numeric
// and date columns stay strings. A field that is absent from a row reads as
// the empty string.
//
// # Loading
//
// Records come from a [Source] (CSV file, HTTP resource, Postgres table or an
// in-memory fixture). The [Service] wraps a source with:
//
//   - request de-duplication: concurrent loads collapse into one fetch
//   - caching: the last good [Snapshot] is served until the next reload
//   - an explicit state machine: idle -> loading -> ready | failed
//
// A caller whose context is cancelled stops waiting and gets ctx.Err(); the
// shared fetch carries on and its result only updates the service cache.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages using [MapError].
// Each category has a code for support reference:
//
//   - SRC001-SRC003: source errors (unavailable, malformed, missing columns)
//   - REC001: record not found
//   - REQ001-REQ003: request errors (page size, cancelled, timeout)
package core
