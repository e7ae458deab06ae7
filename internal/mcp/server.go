package mcp

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rv-solomasov/dfChunk/internal/frame"
)

const (
	// ServerName is the MCP server name
	ServerName = "dfchunk-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// dataset is one loaded frame held in the server's registry.
type dataset struct {
	handle string
	source string
	frame  *frame.Frame
}

// Server wraps the MCP server with the in-memory dataset registry
type Server struct {
	mcp *server.MCPServer
	log *slog.Logger

	mu       sync.RWMutex
	datasets map[string]*dataset
}

// NewServer creates a new MCP server instance. The logger may be nil,
// in which case everything is discarded.
func NewServer(log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		log:      log,
		datasets: make(map[string]*dataset),
	}

	if err := s.registerTools(); err != nil {
		return nil, err
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(loadDatasetTool(), s.handleLoadDataset)
	s.mcp.AddTool(datasetInfoTool(), s.handleDatasetInfo)
	s.mcp.AddTool(chunkDatasetTool(), s.handleChunkDataset)
	return nil
}

// putDataset registers a loaded frame and returns its handle.
func (s *Server) putDataset(ds *dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.handle] = ds
}

// getDataset looks up a loaded frame by handle.
func (s *Server) getDataset(handle string) (*dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[handle]
	return ds, ok
}
