package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// chunkingProperties are the configuration override parameters shared
// by process_text and process_file
func chunkingProperties() map[string]interface{} {
	return map[string]interface{}{
		"chunk_method": map[string]interface{}{
			"type":        "string",
			"description": "Chunking strategy to apply",
			"enum":        []string{"paragraph", "sentence", "custom", "token_aware"},
			"default":     "paragraph",
		},
		"max_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Token budget per chunk",
			"default":     1024,
			"minimum":     1,
		},
		"overlap_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Token overlap between consecutive chunks (token_aware only)",
			"default":     0,
			"minimum":     0,
		},
		"custom_delimiter": map[string]interface{}{
			"type":        "string",
			"description": "Delimiter for the custom chunking method",
		},
		"tokenizer": map[string]interface{}{
			"type":        "string",
			"description": "Token estimator: word-estimate or char-estimate",
			"default":     "word-estimate",
		},
		"save": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, persist the result and include its result_id",
			"default":     false,
		},
	}
}

// processTextTool returns the tool definition for process_text
func processTextTool() mcp.Tool {
	properties := chunkingProperties()
	properties["text"] = map[string]interface{}{
		"type":        "string",
		"description": "Raw text to clean and chunk",
	}
	properties["extension"] = map[string]interface{}{
		"type":        "string",
		"description": "File extension hint for content-type detection (e.g. 'md', 'py', 'csv')",
	}

	return mcp.Tool{
		Name:        "process_text",
		Description: "Clean and chunk raw text into token-bounded chunks for dataset preparation",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"text"},
		},
	}
}

// processFileTool returns the tool definition for process_file
func processFileTool() mcp.Tool {
	properties := chunkingProperties()
	properties["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the file to process",
	}

	return mcp.Tool{
		Name:        "process_file",
		Description: "Extract text from a file, then clean and chunk it into token-bounded chunks",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   []string{"path"},
		},
	}
}

// listTokenizersTool returns the tool definition for list_tokenizers
func listTokenizersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_tokenizers",
		Description: "List the available token estimators",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getResultTool returns the tool definition for get_result
func getResultTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_result",
		Description: "Fetch a stored processing result with all its chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"result_id": map[string]interface{}{
					"type":        "string",
					"description": "ID returned by a previous process call with save=true",
				},
			},
			Required: []string{"result_id"},
		},
	}
}

// exportResultTool returns the tool definition for export_result
func exportResultTool() mcp.Tool {
	return mcp.Tool{
		Name:        "export_result",
		Description: "Export a stored processing result as JSONL, JSON, or CSV",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"result_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the stored result to export",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Export encoding",
					"enum":        []string{"jsonl", "json", "csv"},
					"default":     "jsonl",
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute file path to write the export to; omitted, the content is returned inline",
				},
			},
			Required: []string{"result_id"},
		},
	}
}
