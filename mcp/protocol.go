package mcp

import "encoding/json"

// ProtocolVersion is returned from initialize regardless of what the client asks for.
const ProtocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
	// CodeToolError reports a tool handler failure.
	CodeToolError = -32000
)

// Request is a JSON-RPC 2.0 request or notification. Notifications have no ID.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response carries exactly one of Result or Error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

type serverCapabilities struct {
	Tools struct{} `json:"tools"`
}

type toolsListResult struct {
	Tools []toolDescription `json:"tools"`
}

type toolDescription struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

type toolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type toolsCallResult struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
