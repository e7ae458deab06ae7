// Package mcp implements the MCP (Model Context Protocol) server that
// exposes group-aware dataset chunking as tools over stdio.
//
// # Tools
//
// load_dataset reads a CSV file or a SQLite table into an in-memory
// frame and returns a handle:
//
//	{"path": "/data/events.csv"}
//	{"path": "/data/events.db", "format": "sqlite", "table": "events"}
//
// dataset_info describes a loaded dataset; with a column argument it
// also reports the per-group row counts the boundary algorithm would
// walk, in first-occurrence order.
//
// chunk_dataset runs one chunk production over a loaded dataset and
// returns the run summary (run ID, per-chunk sizes and group keys).
// Chunk contents stay in memory; with manifest_db set, the summary is
// persisted through the storage package.
//
// # State
//
// Loaded datasets live in a mutex-guarded registry for the lifetime of
// the server process. Handles are UUIDs; reloading the same file yields
// a new, independent dataset.
//
// # Errors
//
// Parameter problems map to JSON-RPC invalid-params (-32602); unknown
// handles and tables use dedicated codes; chunker construction errors
// (invalid grouping column, non-positive target) surface as invalid
// params so the caller can correct and retry.
//
// stdout is reserved for the protocol; all logging goes to the injected
// slog handler (stderr in the shipped binary).
package mcp
