package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "textstitch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	store    storage.Store
	defaults types.ProcessingConfig
}

// NewServer creates a new MCP server instance. dbPath is the results
// database file; defaults is the base processing configuration, which
// individual tool calls may override parts of.
func NewServer(dbPath string, defaults types.ProcessingConfig) (*Server, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".textstitch", "results.db")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := defaults.Validate(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid default configuration: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		defaults: defaults,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(processTextTool(), s.handleProcessText)
	s.mcp.AddTool(processFileTool(), s.handleProcessFile)
	s.mcp.AddTool(listTokenizersTool(), s.handleListTokenizers)
	s.mcp.AddTool(getResultTool(), s.handleGetResult)
	s.mcp.AddTool(exportResultTool(), s.handleExportResult)
}
