// Package server implements the MCP (Model Context Protocol) server for pill
// counting tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the counting
// pipeline through the MCP protocol. It's designed to work with Claude and
// other MCP-compatible clients, enabling AI systems to count and inspect
// pills in photographs.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - pill_count: Run the counting pipeline and return count, per-pill
//     geometry and color, and an annotated image
//   - pill_image_info: Load a photograph and report metadata
//   - pill_crop_detection: Close-up of one counted pill
//   - pill_read_imprint: OCR the imprint code on one pill (only listed on
//     builds with Tesseract support)
//
// pill_count accepts every pipeline tuning parameter as an optional flat
// argument; absent arguments fall back to the reference tuning. Out-of-domain
// values are rejected by the pipeline's own validation before any processing
// runs.
//
// # Image Caching
//
// The server maintains an in-memory cache of photographs loaded by path, so
// an info call followed by a count call decodes the file once. Inline base64
// submissions bypass the cache. The cache persists for the lifetime of the
// server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Configuration and decode failures from the pipeline surface here as tool
// execution failures; a zero count is a normal result, not an error.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
