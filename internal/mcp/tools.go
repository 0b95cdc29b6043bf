package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/textstitch/textstitch/internal/exporter"
	"github.com/textstitch/textstitch/internal/processor"
	"github.com/textstitch/textstitch/internal/storage"
	"github.com/textstitch/textstitch/internal/tokenizer"
	"github.com/textstitch/textstitch/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeResultNotFound = -32001 // No stored result with the given ID
)

// handleProcessText handles the process_text tool invocation
func (s *Server) handleProcessText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}
	extension := getStringDefault(args, "extension", "")

	cfg := s.mergeConfig(args)
	proc, err := processor.New(cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := proc.Process(text, extension)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return s.resultResponse(ctx, args, result)
}

// handleProcessFile handles the process_file tool invocation
func (s *Server) handleProcessFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	if err := validateFilePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	cfg := s.mergeConfig(args)
	proc, err := processor.New(cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := proc.ProcessFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return s.resultResponse(ctx, args, result)
}

// handleListTokenizers handles the list_tokenizers tool invocation
func (s *Server) handleListTokenizers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	descriptions := map[string]string{
		tokenizer.ProviderWordEstimate: "Fast word-based estimation (word count x 1.3)",
		tokenizer.ProviderCharEstimate: "Character-based estimation (character count / 4)",
	}

	list := make([]map[string]interface{}, 0)
	for _, name := range tokenizer.Available() {
		list = append(list, map[string]interface{}{
			"name":        name,
			"description": descriptions[name],
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"tokenizers": list,
	})), nil
}

// handleGetResult handles the get_result tool invocation
func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["result_id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "result_id parameter is required", map[string]interface{}{
			"param":  "result_id",
			"reason": "missing or empty",
		})
	}

	stored, err := s.store.GetResult(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeResultNotFound, "result not found", map[string]interface{}{
			"result_id": id,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load result", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"result_id":  stored.ID,
		"created_at": stored.CreatedAt,
		"result":     stored.Result,
	})), nil
}

// handleExportResult handles the export_result tool invocation
func (s *Server) handleExportResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["result_id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "result_id parameter is required", map[string]interface{}{
			"param":  "result_id",
			"reason": "missing or empty",
		})
	}

	format, err := exporter.ParseFormat(getStringDefault(args, "format", "jsonl"))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"allowed": []string{"jsonl", "json", "csv"},
		})
	}

	stored, err := s.store.GetResult(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeResultNotFound, "result not found", map[string]interface{}{
			"result_id": id,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load result", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if outputPath := getStringDefault(args, "output_path", ""); outputPath != "" {
		if !filepath.IsAbs(outputPath) {
			return nil, newMCPError(ErrorCodeInvalidParams, "output_path must be absolute", map[string]interface{}{
				"param": "output_path",
			})
		}
		if err := exporter.WriteFile(outputPath, stored, format); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "export failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"exported":  true,
			"result_id": id,
			"format":    string(format),
			"path":      outputPath,
		})), nil
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, stored, format); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "export failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// resultResponse optionally persists result and formats the tool reply
func (s *Server) resultResponse(ctx context.Context, args map[string]interface{}, result *types.ProcessingResult) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"result": result,
	}

	if getBoolDefault(args, "save", false) {
		id, err := s.store.SaveResult(ctx, result)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to save result", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response["result_id"] = id
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// mergeConfig overlays per-call overrides onto the server defaults
func (s *Server) mergeConfig(args map[string]interface{}) types.ProcessingConfig {
	cfg := s.defaults

	if method := getStringDefault(args, "chunk_method", ""); method != "" {
		cfg.Chunking.Method = types.ChunkingMethod(method)
	}
	cfg.Chunking.MaxTokens = getIntDefault(args, "max_tokens", cfg.Chunking.MaxTokens)
	cfg.Chunking.OverlapTokens = getIntDefault(args, "overlap_tokens", cfg.Chunking.OverlapTokens)
	if delim := getStringDefault(args, "custom_delimiter", ""); delim != "" {
		cfg.Chunking.CustomDelimiter = delim
	}
	cfg.Tokenizer = getStringDefault(args, "tokenizer", cfg.Tokenizer)

	return cfg
}

// Helper functions

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

// validateFilePath checks that path is an absolute path to a readable
// regular file
func validateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if info.IsDir() {
		return ErrPathIsDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
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
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrPathIsDirectory = errors.New("path is a directory, not a file")
)
