// Package mcp serves the Model Context Protocol over HTTP: JSON-RPC 2.0
// requests dispatched against a static tool registry.
package mcp
