package types

import (
	"errors"
	"time"
)

// ChunkInfo records one produced chunk within a run: its position in
// emission order, its row count, and the grouping-key values it holds.
type ChunkInfo struct {
	Seq      int
	RowCount int
	Groups   []string
}

// RunSummary describes one completed chunk-production run. It is the
// unit persisted to the manifest store and returned by the MCP surface;
// the chunks themselves are transient and never persisted.
type RunSummary struct {
	RunID       string
	Source      string // caller-supplied label, e.g. file path or table name
	GroupColumn string
	TargetSize  int
	Chunks      []ChunkInfo
	CreatedAt   time.Time
}

// TotalRows returns the number of rows across all chunks in the run.
func (rs *RunSummary) TotalRows() int {
	total := 0
	for _, c := range rs.Chunks {
		total += c.RowCount
	}
	return total
}

// Validate checks if the run summary is internally consistent
func (rs *RunSummary) Validate() error {
	if rs.RunID == "" {
		return errors.New("run ID is required")
	}

	if rs.GroupColumn == "" {
		return errors.New("group column is required")
	}

	if rs.TargetSize <= 0 {
		return ErrInvalidTarget
	}

	for i, c := range rs.Chunks {
		if c.Seq != i {
			return errors.New("chunk sequence numbers must be contiguous from zero")
		}
		if c.RowCount <= 0 {
			return errors.New("chunks cannot be empty")
		}
		if len(c.Groups) == 0 {
			return errors.New("chunks must contain at least one group")
		}
	}

	return nil
}
