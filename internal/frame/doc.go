// Package frame provides the in-memory tabular dataset the chunker
// operates on.
//
// A Frame is an ordered table with named string columns. It exposes
// exactly the two primitives the chunk-boundary algorithm needs from
// its storage layer:
//
//   - GroupCounts: distinct values of one column with row counts, in
//     first-occurrence order (not sorted order)
//   - FilterIn: the rows whose column value belongs to a given set,
//     preserving original row order
//
// # Basic Usage
//
//	f, err := frame.New(
//	    []string{"dt", "value"},
//	    [][]string{{"00:01", "a"}, {"00:01", "b"}, {"00:02", "c"}},
//	)
//
//	groups, _ := f.GroupCounts("dt")
//	// [{00:01 2} {00:02 1}]
//
//	sub, _ := f.FilterIn("dt", []string{"00:01"})
//	// 2 rows, original order
//
// Frames are immutable after construction; FilterIn and Head return new
// frames sharing the underlying row storage. All values are strings,
// matching how rows arrive from CSV and from SQLite text scans.
package frame
