package chunker

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rv-solomasov/dfChunk/internal/frame"
	"github.com/rv-solomasov/dfChunk/pkg/types"
)

// Chunker splits a frame into contiguous, group-aligned chunks whose
// row counts approximate a target. All rows sharing one value of the
// grouping column always land in the same chunk.
type Chunker struct {
	frame   *frame.Frame
	nApprox int
	column  string
	log     *slog.Logger

	buffer  []*frame.Frame
	summary *types.RunSummary
}

// Option configures a Chunker at construction.
type Option func(*Chunker)

// WithLogger injects the leveled logging sink. A nil logger is ignored;
// the default discards everything. Logging never alters control flow.
func WithLogger(log *slog.Logger) Option {
	return func(c *Chunker) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a Chunker over the given frame. nApprox is the
// approximate row count per chunk and a lower bound for every chunk
// but the last; column names the grouping column.
//
// Returns an error wrapping types.ErrInvalidKey when the column does
// not exist, or types.ErrInvalidTarget when nApprox is not positive.
// An empty frame is not an error: construction succeeds with a warning
// and production yields no chunks.
func New(f *frame.Frame, nApprox int, column string, opts ...Option) (*Chunker, error) {
	c := &Chunker{
		frame:   f,
		nApprox: nApprox,
		column:  column,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validateParams(); err != nil {
		return nil, err
	}

	return c, nil
}

// validateParams checks the construction parameters once. It is
// deterministic and has no side effects beyond logging.
func (c *Chunker) validateParams() error {
	if !c.frame.HasColumn(c.column) {
		c.log.Error("grouping column not found", "column", c.column)
		return fmt.Errorf("%w: %q", types.ErrInvalidKey, c.column)
	}

	if c.nApprox <= 0 {
		c.log.Error("invalid value for n_approx", "n_approx", c.nApprox)
		return fmt.Errorf("%w: got %d", types.ErrInvalidTarget, c.nApprox)
	}

	if c.frame.NumRows() == 0 {
		c.log.Warn("dataset is empty, no chunks will be produced")
	}

	c.log.Info("chunker initialized", "column", c.column, "n_approx", c.nApprox)
	return nil
}

// Stage appends one completed chunk to the buffer's tail.
func (c *Chunker) Stage(chunk *frame.Frame) {
	c.buffer = append(c.buffer, chunk)
	c.log.Debug("staged a chunk", "buffered", len(c.buffer))
}

// Drain captures and clears the buffer, returning its prior contents
// in staging order. Chunks staged afterwards start a fresh buffer.
func (c *Chunker) Drain() []*frame.Frame {
	c.log.Info("draining the chunk buffer", "buffered", len(c.buffer))
	drained := c.buffer
	c.buffer = nil
	return drained
}

// Chunks returns a lazy, finite sequence of chunks in group
// first-occurrence order. Each call starts a fresh production run;
// a partially consumed sequence is abandoned, never resumed. A single
// Chunker must not run two productions concurrently.
//
// The boundary policy is greedy and non-backtracking: groups
// accumulate until their summed row count reaches nApprox, at which
// point the chunk is sealed immediately even if it overshoots the
// target. A single group larger than nApprox therefore produces one
// oversized chunk; this is intentional. Remaining groups below the
// threshold form a final, smaller chunk so no rows are dropped.
//
// If the grouping column vanishes mid-run the sequence ends with a nil
// chunk and an error wrapping types.ErrMissingGroupKey; chunks yielded
// before the failure remain valid.
func (c *Chunker) Chunks() iter.Seq2[*frame.Frame, error] {
	return func(yield func(*frame.Frame, error) bool) {
		c.log.Info("splitting dataset into chunks", "n_approx", c.nApprox, "column", c.column)

		run := &types.RunSummary{
			RunID:       uuid.NewString(),
			GroupColumn: c.column,
			TargetSize:  c.nApprox,
			CreatedAt:   time.Now(),
		}

		groups, err := c.frame.GroupCounts(c.column)
		if err != nil {
			// Construction already validated the column; trap anyway.
			c.log.Error("grouping column missing during aggregation", "column", c.column)
			yield(nil, fmt.Errorf("%w: %q", types.ErrMissingGroupKey, c.column))
			return
		}

		var accum []string
		sum := 0
		seal := func() bool {
			chunk, err := c.frame.FilterIn(c.column, accum)
			if err != nil {
				c.log.Error("grouping column missing during materialization", "column", c.column)
				yield(nil, fmt.Errorf("%w: %q", types.ErrMissingGroupKey, c.column))
				return false
			}
			c.Stage(chunk)
			run.Chunks = append(run.Chunks, types.ChunkInfo{
				Seq:      len(run.Chunks),
				RowCount: chunk.NumRows(),
				Groups:   accum,
			})
			accum = nil
			sum = 0
			return true
		}

		for _, g := range groups {
			accum = append(accum, g.Key)
			sum += g.Count
			if sum >= c.nApprox {
				if !seal() {
					return
				}
			}
		}
		if len(accum) > 0 {
			if !seal() {
				return
			}
		}

		for _, chunk := range c.Drain() {
			c.log.Debug("yielding a chunk", "rows", chunk.NumRows())
			if !yield(chunk, nil) {
				return
			}
		}

		c.summary = run
		c.log.Info("dataset successfully split into chunks", "chunks", len(run.Chunks))
	}
}

// Summary returns the metadata of the last fully consumed production
// run, or nil if no run has completed.
func (c *Chunker) Summary() *types.RunSummary {
	return c.summary
}
