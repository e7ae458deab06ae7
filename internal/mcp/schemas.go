package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// loadDatasetTool returns the tool definition for load_dataset
func loadDatasetTool() mcp.Tool {
	return mcp.Tool{
		Name:        "load_dataset",
		Description: "Load a tabular dataset (CSV file or SQLite table) into memory and return a dataset handle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the CSV file or SQLite database",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Input format",
					"enum":        []string{"csv", "sqlite"},
					"default":     "csv",
				},
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table to load (required when format is sqlite)",
				},
			},
			Required: []string{"path"},
		},
	}
}

// datasetInfoTool returns the tool definition for dataset_info
func datasetInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "dataset_info",
		Description: "Describe a loaded dataset: columns, row count, and optionally per-group row counts for one column",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dataset": map[string]interface{}{
					"type":        "string",
					"description": "Dataset handle returned by load_dataset",
				},
				"column": map[string]interface{}{
					"type":        "string",
					"description": "If set, report distinct values of this column with row counts in first-occurrence order",
				},
			},
			Required: []string{"dataset"},
		},
	}
}

// chunkDatasetTool returns the tool definition for chunk_dataset
func chunkDatasetTool() mcp.Tool {
	return mcp.Tool{
		Name:        "chunk_dataset",
		Description: "Split a loaded dataset into group-aligned chunks of approximately target_size rows; groups sharing one value of group_column are never split",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dataset": map[string]interface{}{
					"type":        "string",
					"description": "Dataset handle returned by load_dataset",
				},
				"group_column": map[string]interface{}{
					"type":        "string",
					"description": "Column whose values define the groups that must stay whole",
				},
				"target_size": map[string]interface{}{
					"type":        "integer",
					"description": "Approximate rows per chunk; a lower bound for every chunk but the last",
					"minimum":     1,
				},
				"manifest_db": map[string]interface{}{
					"type":        "string",
					"description": "If set, persist the run manifest to this SQLite database",
				},
			},
			Required: []string{"dataset", "group_column", "target_size"},
		},
	}
}
