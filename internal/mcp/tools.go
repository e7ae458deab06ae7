package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rv-solomasov/dfChunk/internal/chunker"
	"github.com/rv-solomasov/dfChunk/internal/frame"
	"github.com/rv-solomasov/dfChunk/internal/storage"
	"github.com/rv-solomasov/dfChunk/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeDatasetNotFound = -32001 // Unknown dataset handle
	ErrorCodeTableNotFound   = -32002 // Table does not exist in the SQLite database
)

// handleLoadDataset handles the load_dataset tool invocation
func (s *Server) handleLoadDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validateFile(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	format := getStringDefault(args, "format", "csv")

	var (
		f      *frame.Frame
		source string
		err    error
	)
	switch format {
	case "csv":
		source = path
		f, err = frame.ReadCSVFile(path)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to load csv", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case "sqlite":
		table, ok := args["table"].(string)
		if !ok || table == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "table parameter is required for sqlite format", map[string]interface{}{
				"param":  "table",
				"reason": "missing or empty",
			})
		}
		source = fmt.Sprintf("%s#%s", path, table)
		f, err = loadSQLiteTable(ctx, path, table)
		if errors.Is(err, storage.ErrTableNotFound) {
			return nil, newMCPError(ErrorCodeTableNotFound, "table not found", map[string]interface{}{
				"table": table,
			})
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to load table", map[string]interface{}{
				"error": err.Error(),
			})
		}
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"value":   format,
			"allowed": []string{"csv", "sqlite"},
		})
	}

	ds := &dataset{
		handle: uuid.NewString(),
		source: source,
		frame:  f,
	}
	s.putDataset(ds)
	s.log.Info("dataset loaded", "handle", ds.handle, "source", source, "rows", f.NumRows())

	response := map[string]interface{}{
		"dataset": ds.handle,
		"source":  source,
		"rows":    f.NumRows(),
		"columns": f.Columns(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDatasetInfo handles the dataset_info tool invocation
func (s *Server) handleDatasetInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ds, err := s.datasetFromArgs(args)
	if err != nil {
		return nil, err
	}

	response := map[string]interface{}{
		"dataset": ds.handle,
		"source":  ds.source,
		"rows":    ds.frame.NumRows(),
		"columns": ds.frame.Columns(),
	}

	if column := getStringDefault(args, "column", ""); column != "" {
		groups, err := ds.frame.GroupCounts(column)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid column", map[string]interface{}{
				"param": "column",
				"value": column,
			})
		}
		groupList := make([]map[string]interface{}, len(groups))
		for i, g := range groups {
			groupList[i] = map[string]interface{}{
				"key":   g.Key,
				"count": g.Count,
			}
		}
		response["group_column"] = column
		response["groups"] = groupList
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleChunkDataset handles the chunk_dataset tool invocation
func (s *Server) handleChunkDataset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	ds, err := s.datasetFromArgs(args)
	if err != nil {
		return nil, err
	}

	groupColumn, ok := args["group_column"].(string)
	if !ok || groupColumn == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "group_column parameter is required", map[string]interface{}{
			"param":  "group_column",
			"reason": "missing or empty",
		})
	}

	targetSize := getIntDefault(args, "target_size", 0)

	c, err := chunker.New(ds.frame, targetSize, groupColumn, chunker.WithLogger(s.log))
	if errors.Is(err, types.ErrInvalidKey) || errors.Is(err, types.ErrInvalidTarget) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid chunking parameters", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to create chunker", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Consume the whole run; the summary is recorded on completion.
	for _, chunkErr := range c.Chunks() {
		if chunkErr != nil {
			return nil, newMCPError(ErrorCodeInternalError, "chunk production failed", map[string]interface{}{
				"error": chunkErr.Error(),
			})
		}
	}

	summary := c.Summary()
	summary.Source = ds.source

	if manifestDB := getStringDefault(args, "manifest_db", ""); manifestDB != "" {
		if err := persistRun(ctx, manifestDB, summary); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to persist manifest", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	chunkList := make([]map[string]interface{}, len(summary.Chunks))
	for i, ci := range summary.Chunks {
		chunkList[i] = map[string]interface{}{
			"seq":    ci.Seq,
			"rows":   ci.RowCount,
			"groups": ci.Groups,
		}
	}

	response := map[string]interface{}{
		"run_id":       summary.RunID,
		"dataset":      ds.handle,
		"group_column": summary.GroupColumn,
		"target_size":  summary.TargetSize,
		"chunk_count":  len(summary.Chunks),
		"total_rows":   summary.TotalRows(),
		"chunks":       chunkList,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// datasetFromArgs resolves the dataset handle argument to a loaded frame.
func (s *Server) datasetFromArgs(args map[string]interface{}) (*dataset, error) {
	handle, ok := args["dataset"].(string)
	if !ok || handle == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "dataset parameter is required", map[string]interface{}{
			"param":  "dataset",
			"reason": "missing or empty",
		})
	}

	ds, ok := s.getDataset(handle)
	if !ok {
		return nil, newMCPError(ErrorCodeDatasetNotFound, "dataset not loaded", map[string]interface{}{
			"dataset": handle,
		})
	}
	return ds, nil
}

// loadSQLiteTable opens the database just long enough to read one table.
func loadSQLiteTable(ctx context.Context, path, table string) (*frame.Frame, error) {
	store, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.LoadTable(ctx, table)
}

// persistRun writes the run summary to the manifest database.
func persistRun(ctx context.Context, path string, summary *types.RunSummary) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return store.SaveRun(ctx, summary)
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateFile checks if a path exists and is a regular file
func validateFile(path string) error {
	if !filepath.IsAbs(path) {
		return errors.New("path must be absolute")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.New("path does not exist")
	}
	if err != nil {
		return errors.New("path is not readable")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
