// Package storage provides SQLite-backed dataset loading and chunk-run
// manifest persistence.
//
// Datasets are read whole tables at a time, in rowid order, with every
// value scanned as text so the frame representation stays uniform with
// CSV input. Chunk contents are never persisted; only run manifests
// (which column was grouped, the target size, and per-chunk sizes and
// group keys) are written:
//
//	store, err := storage.Open("runs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	f, err := store.LoadTable(ctx, "events")
//	// ... chunk f ...
//	err = store.SaveRun(ctx, chunker.Summary())
//
// # Schema
//
// Tables:
//   - chunk_runs: one row per completed production run
//   - chunk_manifest: one row per chunk, in emission order
//   - schema_version: migration bookkeeping
//
// # Build Tags
//
// The package supports two build configurations:
//
// CGO build (sqlite_cgo tag), driver github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags "sqlite_cgo" ./...
//
// Pure Go build (default), driver modernc.org/sqlite:
//
//	CGO_ENABLED=0 go build ./...
package storage
