// Package mcp implements the Model Context Protocol (MCP) server for TextStitch.
//
// The MCP server exposes five tools to AI assistants:
//   - process_text: Clean and chunk raw text into token-bounded chunks
//   - process_file: Extract text from a file, then clean and chunk it
//   - list_tokenizers: List the available token estimators
//   - get_result: Fetch a stored processing result
//   - export_result: Export a stored result as JSONL, JSON, or CSV
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output.
// Logs go to stderr so they never interleave with protocol messages.
//
// # Tool: process_text
//
// Chunk raw text with optional configuration overrides:
//
//	Request:
//	{
//	  "name": "process_text",
//	  "arguments": {
//	    "text": "First paragraph.\n\nSecond paragraph.",
//	    "extension": "md",
//	    "chunk_method": "paragraph",
//	    "max_tokens": 512,
//	    "save": true
//	  }
//	}
//
//	Response (abridged):
//	{
//	  "result_id": "7f8c…",
//	  "result": {
//	    "chunks": [...],
//	    "total_chunks": 2,
//	    "total_tokens": 7
//	  }
//	}
//
// With save=true the result is persisted and the response carries a
// result_id usable with get_result and export_result.
//
// # Tool: process_file
//
// Same configuration surface as process_text, but reads the input from
// an absolute file path. Binary document formats (PDF, DOCX, …) are
// converted to text first.
//
// # Tool: export_result
//
// Exports a stored result. Without output_path the encoded export is
// returned inline as the tool result text; with an absolute
// output_path it is written to disk:
//
//	{
//	  "name": "export_result",
//	  "arguments": {
//	    "result_id": "7f8c…",
//	    "format": "jsonl",
//	    "output_path": "/data/exports/run1.jsonl"
//	  }
//	}
//
// # Error Handling
//
// Errors use JSON-RPC codes:
//   - -32602: invalid parameters (missing text/path, bad configuration)
//   - -32603: internal error (processing or storage failure)
//   - -32001: result_id does not exist
package mcp
