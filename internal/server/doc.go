// Package server implements the MCP (Model Context Protocol) server for the
// receipt cropping pipeline.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line, and
// exposes the pipeline as tools an MCP client can call with a path to a
// photograph on the local filesystem.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - receipt_crop: Rectified 600px wide JPEG, inline as base64 or written to output_path
//   - receipt_detect: Detection report only (method, corners, score, counts)
//   - receipt_edge_map: The binary edge map the detector traced, as PNG
//   - receipt_overlay: The photograph with the detected outline drawn on it, as PNG
//
// Every tool result carries the pipeline Report, so a client can tell a
// perspective rectification from a fallback crop or a passthrough.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. Malformed request lines are
// answered with -32700 and the server keeps reading.
//
// # Usage
//
//	p, err := pipeline.New(pipeline.DefaultParams())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(p).Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Logs go through the logger package; the mcp command points it at stderr
// so stdout carries only protocol traffic.
package server
