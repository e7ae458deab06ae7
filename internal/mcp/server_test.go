package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	s, err := NewServer(nil)
	require.NoError(t, err)
	return s
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultJSON decodes the text payload of a tool result.
func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()

	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func writeCSV(t *testing.T, rows string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(rows), 0644))
	return path
}

// loadCSV loads a CSV through the tool surface and returns the handle.
func loadCSV(t *testing.T, s *Server, path string) string {
	t.Helper()

	res, err := s.handleLoadDataset(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	handle, _ := payload["dataset"].(string)
	require.NotEmpty(t, handle)
	return handle
}

const sampleCSV = "dt,payload\n" +
	"00:01,a\n00:01,b\n" +
	"00:02,c\n00:02,d\n00:02,e\n" +
	"00:03,f\n"

func TestNewServer(t *testing.T) {
	s := newTestServer(t)

	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.datasets)
}

func TestHandleLoadDataset_CSV(t *testing.T) {
	s := newTestServer(t)
	path := writeCSV(t, sampleCSV)

	res, err := s.handleLoadDataset(context.Background(), toolRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, float64(6), payload["rows"])
	assert.Equal(t, []interface{}{"dt", "payload"}, payload["columns"])
	assert.NotEmpty(t, payload["dataset"])
}

func TestHandleLoadDataset_MissingPath(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleLoadDataset(context.Background(), toolRequest(map[string]interface{}{}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleLoadDataset_RelativePath(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleLoadDataset(context.Background(), toolRequest(map[string]interface{}{
		"path": "data.csv",
	}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleLoadDataset_SQLiteRequiresTable(t *testing.T) {
	s := newTestServer(t)
	path := writeCSV(t, sampleCSV) // any existing file

	_, err := s.handleLoadDataset(context.Background(), toolRequest(map[string]interface{}{
		"path":   path,
		"format": "sqlite",
	}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleDatasetInfo(t *testing.T) {
	s := newTestServer(t)
	handle := loadCSV(t, s, writeCSV(t, sampleCSV))

	res, err := s.handleDatasetInfo(context.Background(), toolRequest(map[string]interface{}{
		"dataset": handle,
		"column":  "dt",
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, "dt", payload["group_column"])

	groups, ok := payload["groups"].([]interface{})
	require.True(t, ok)
	require.Len(t, groups, 3)
	first, ok := groups[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "00:01", first["key"])
	assert.Equal(t, float64(2), first["count"])
}

func TestHandleDatasetInfo_UnknownHandle(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleDatasetInfo(context.Background(), toolRequest(map[string]interface{}{
		"dataset": "nope",
	}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeDatasetNotFound, mcpErr.Code)
}

func TestHandleChunkDataset(t *testing.T) {
	s := newTestServer(t)
	handle := loadCSV(t, s, writeCSV(t, sampleCSV))

	res, err := s.handleChunkDataset(context.Background(), toolRequest(map[string]interface{}{
		"dataset":      handle,
		"group_column": "dt",
		"target_size":  float64(2),
	}))
	require.NoError(t, err)

	payload := resultJSON(t, res)
	assert.Equal(t, float64(3), payload["chunk_count"])
	assert.Equal(t, float64(6), payload["total_rows"])
	assert.NotEmpty(t, payload["run_id"])

	chunks, ok := payload["chunks"].([]interface{})
	require.True(t, ok)
	require.Len(t, chunks, 3)
	first, ok := chunks[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), first["rows"])
}

func TestHandleChunkDataset_InvalidColumn(t *testing.T) {
	s := newTestServer(t)
	handle := loadCSV(t, s, writeCSV(t, sampleCSV))

	_, err := s.handleChunkDataset(context.Background(), toolRequest(map[string]interface{}{
		"dataset":      handle,
		"group_column": "invalid_column",
		"target_size":  float64(2),
	}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleChunkDataset_InvalidTarget(t *testing.T) {
	s := newTestServer(t)
	handle := loadCSV(t, s, writeCSV(t, sampleCSV))

	_, err := s.handleChunkDataset(context.Background(), toolRequest(map[string]interface{}{
		"dataset":      handle,
		"group_column": "dt",
		"target_size":  float64(0),
	}))

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestMCPError(t *testing.T) {
	err := newMCPError(ErrorCodeInvalidParams, "invalid params", nil)
	assert.Equal(t, "MCP error -32602: invalid params", err.Error())

	var mcpErr *MCPError
	assert.True(t, errors.As(err, &mcpErr))
}
