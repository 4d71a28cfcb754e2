// Package server implements the MCP (Model Context Protocol) server for
// texture synthesis.
//
// The server exposes the synthesis engine to MCP clients: a client picks a
// sample image (optionally a rectangle of it), asks for an output size, and
// receives the synthesized texture as base64 PNG.
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
// Sample Information:
//   - image_load: Load a sample and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Preview a sample region
//
// Texture Synthesis:
//   - texture_quilt: Patch quilting (fast, structured textures)
//   - texture_grow: Pixel-by-pixel growth (slow, small outputs)
//
// Synthesis runs synchronously inside tools/call; requests are handled one
// at a time.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "invalid arguments: overlap 0 must be positive"
//
// # Logging
//
// Logs go to stderr through the standard log package. Setting
// TEXTURE_MCP_LOG_LEVEL=debug adds one line per request and tool timing.
package server
