package types

import "errors"

// Domain errors for chunker validation and production
var (
	// ErrInvalidKey is returned at construction when the grouping column
	// does not exist in the dataset.
	ErrInvalidKey = errors.New("grouping column not found in dataset")

	// ErrInvalidTarget is returned at construction when the approximate
	// chunk size is not a positive integer.
	ErrInvalidTarget = errors.New("n_approx must be a positive integer")

	// ErrMissingGroupKey is returned mid-run when the grouping column
	// disappears during group aggregation. Chunks already produced
	// remain valid; no further chunks are produced.
	ErrMissingGroupKey = errors.New("grouping column missing during aggregation")
)
