package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist
	ErrColumnNotFound = errors.New("column not found")
)

// Frame is an ordered, in-memory table with named columns. Rows keep
// their insertion order; that order is what chunk contents are
// reconstructed from. A Frame is never mutated after construction.
type Frame struct {
	columns  []string
	colIndex map[string]int
	rows     [][]string
}

// GroupCount pairs one distinct value of a column with the number of
// rows bearing that value.
type GroupCount struct {
	Key   string
	Count int
}

// New creates a Frame from column names and row-major records. Every
// row must have exactly one value per column, and column names must be
// unique.
func New(columns []string, rows [][]string) (*Frame, error) {
	colIndex := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := colIndex[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		colIndex[name] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}

	return &Frame{
		columns:  columns,
		colIndex: colIndex,
		rows:     rows,
	}, nil
}

// Columns returns the column names in declaration order.
func (f *Frame) Columns() []string {
	return f.columns
}

// NumRows returns the number of rows in the frame.
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// HasColumn reports whether a column with the given name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.colIndex[name]
	return ok
}

// Row returns the i-th row. The returned slice is shared with the
// frame and must not be modified.
func (f *Frame) Row(i int) []string {
	return f.rows[i]
}

// Column returns all values of the named column in row order.
func (f *Frame) Column(name string) ([]string, error) {
	idx, ok := f.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	values := make([]string, len(f.rows))
	for i, row := range f.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// GroupCounts returns the distinct values of the named column with
// their row counts, ordered by first occurrence in the frame. This is
// the aggregation the chunk-boundary algorithm walks; the order
// determines chunk emission order.
func (f *Frame) GroupCounts(name string) ([]GroupCount, error) {
	idx, ok := f.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	seen := make(map[string]int) // key -> position in groups
	var groups []GroupCount
	for _, row := range f.rows {
		key := row[idx]
		if pos, ok := seen[key]; ok {
			groups[pos].Count++
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, GroupCount{Key: key, Count: 1})
	}

	return groups, nil
}

// FilterIn returns a new Frame holding every row whose value in the
// named column is one of the given values, preserving row order.
// Membership is tested across the whole frame, not a contiguous range,
// so rows of the same group at non-adjacent positions are all captured.
func (f *Frame) FilterIn(name string, values []string) (*Frame, error) {
	idx, ok := f.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	member := make(map[string]struct{}, len(values))
	for _, v := range values {
		member[v] = struct{}{}
	}

	var matched [][]string
	for _, row := range f.rows {
		if _, ok := member[row[idx]]; ok {
			matched = append(matched, row)
		}
	}

	return &Frame{
		columns:  f.columns,
		colIndex: f.colIndex,
		rows:     matched,
	}, nil
}

// Head returns a new Frame with at most n leading rows.
func (f *Frame) Head(n int) *Frame {
	if n > len(f.rows) {
		n = len(f.rows)
	}
	if n < 0 {
		n = 0
	}
	return &Frame{
		columns:  f.columns,
		colIndex: f.colIndex,
		rows:     f.rows[:n],
	}
}

// Equal reports whether two frames have identical columns and rows.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil {
		return false
	}
	if len(f.columns) != len(other.columns) || len(f.rows) != len(other.rows) {
		return false
	}
	for i, name := range f.columns {
		if other.columns[i] != name {
			return false
		}
	}
	for i, row := range f.rows {
		for j, v := range row {
			if other.rows[i][j] != v {
				return false
			}
		}
	}
	return true
}
