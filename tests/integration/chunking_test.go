package integration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv-solomasov/dfChunk/internal/chunker"
	"github.com/rv-solomasov/dfChunk/internal/storage"
)

// seedDatabase creates a SQLite database with an events table whose
// group sizes are 2, 3, 3, 1 in first-occurrence order.
func seedDatabase(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "events.db")
	db, err := sql.Open(storage.DriverName, dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(`CREATE TABLE events (dt TEXT, payload TEXT)`)
	require.NoError(t, err)

	rows := [][2]string{
		{"00:01", "a"}, {"00:01", "b"},
		{"00:02", "c"}, {"00:02", "d"}, {"00:02", "e"},
		{"00:03", "f"}, {"00:03", "g"}, {"00:03", "h"},
		{"00:04", "i"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO events (dt, payload) VALUES (?, ?)`, r[0], r[1])
		require.NoError(t, err)
	}
	return dbPath
}

func TestSQLiteToManifestRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := seedDatabase(t)

	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	f, err := store.LoadTable(ctx, "events")
	require.NoError(t, err)
	require.Equal(t, 9, f.NumRows())

	c, err := chunker.New(f, 2, "dt")
	require.NoError(t, err)

	var sizes []int
	totalRows := 0
	for chunk, err := range c.Chunks() {
		require.NoError(t, err)
		sizes = append(sizes, chunk.NumRows())
		totalRows += chunk.NumRows()
	}

	// Greedy seal-on-threshold over group sizes 2, 3, 3, 1.
	assert.Equal(t, []int{2, 3, 3, 1}, sizes)
	assert.Equal(t, f.NumRows(), totalRows)

	summary := c.Summary()
	require.NotNil(t, summary)
	summary.Source = "events"
	require.NoError(t, store.SaveRun(ctx, summary))

	loaded, err := store.GetRun(ctx, summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, "events", loaded.Source)
	assert.Equal(t, summary.Chunks, loaded.Chunks)
	assert.Equal(t, 9, loaded.TotalRows())

	// The manifest tables never show up as loadable datasets.
	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"events"}, tables)
}

func TestRepeatedRunsProduceIdenticalChunks(t *testing.T) {
	ctx := context.Background()
	dbPath := seedDatabase(t)

	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	f, err := store.LoadTable(ctx, "events")
	require.NoError(t, err)

	collect := func() [][]string {
		c, err := chunker.New(f, 3, "dt")
		require.NoError(t, err)

		var keys [][]string
		for chunk, err := range c.Chunks() {
			require.NoError(t, err)
			col, err := chunk.Column("dt")
			require.NoError(t, err)
			keys = append(keys, col)
		}
		return keys
	}

	assert.Equal(t, collect(), collect())
}
