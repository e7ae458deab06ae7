package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rv-solomasov/dfChunk/internal/mcp"
	"github.com/rv-solomasov/dfChunk/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("dfChunk MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log to stderr (stdout reserved for MCP protocol)
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	log.Info("dfChunk MCP server starting", "version", version,
		"build_mode", storage.BuildMode, "driver", storage.DriverName)

	server, err := mcp.NewServer(log)
	if err != nil {
		log.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	case err := <-errChan:
		if err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}
