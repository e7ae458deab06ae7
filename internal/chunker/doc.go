// Package chunker splits a tabular dataset into group-aligned chunks
// of approximately a target row count.
//
// The chunker never splits a group: all rows sharing one value of the
// grouping column land in the same chunk. Chunk boundaries are chosen
// by a greedy single pass over the per-group row counts, in the order
// group values first appear in the dataset.
//
// # Basic Usage
//
//	c, err := chunker.New(f, 100, "dt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for chunk, err := range c.Chunks() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("chunk: %d rows\n", chunk.NumRows())
//	}
//
// # Boundary Policy
//
// Groups accumulate until their summed row count reaches the target,
// then the chunk is sealed immediately:
//
//   - every chunk but the last holds at least n_approx rows
//   - the last chunk holds whatever remains and may be smaller
//   - one group larger than n_approx seals alone into one oversized
//     chunk, uncorrected
//
// For group sizes A=2, B=3, C=3, D=1 and n_approx=2 the chunk sizes
// are [2 3 3 1].
//
// # Buffering
//
// Completed chunks are staged in a FIFO buffer and drained at emission.
// Stage and Drain are exported so the staging behavior can be verified
// independently of production.
//
// # Errors
//
// Construction fails with types.ErrInvalidKey or types.ErrInvalidTarget.
// A mid-run disappearance of the grouping column (defensive; cannot
// happen through this package's own types) ends the sequence with
// types.ErrMissingGroupKey.
package chunker
