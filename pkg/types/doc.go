// Package types provides shared type definitions for the dfChunk module.
//
// This package defines the error taxonomy and run metadata used across
// the chunker core, the storage layer, and the MCP server.
//
// # Errors
//
// Construction-time and production-time failures are sentinel values
// matched with errors.Is:
//
//	c, err := chunker.New(f, 0, "dt")
//	if errors.Is(err, types.ErrInvalidTarget) {
//	    // correct n_approx and reconstruct
//	}
//
// ErrInvalidKey and ErrInvalidTarget are construction-time and fatal for
// that chunker instance. ErrMissingGroupKey is a defensive mid-run error:
// it terminates the chunk sequence early, but chunks yielded before the
// failure remain valid.
//
// # Run Summaries
//
// RunSummary is the durable description of one production run: which
// column it grouped by, the target size, and per-chunk sizes and group
// keys. Chunk contents are never persisted; only the summary is.
//
//	if err := summary.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
