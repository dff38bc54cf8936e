package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/github-mcp-bridge/instrumentation"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

// Dispatcher answers JSON-RPC requests against a Registry.
type Dispatcher struct {
	registry   *Registry
	serverInfo ServerInfo
	metrics    *instrumentation.Metrics
	tracer     trace.Tracer
}

type DispatcherOption func(*Dispatcher)

func WithMetrics(metrics *instrumentation.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		if metrics != nil {
			d.metrics = metrics
		}
	}
}

// WithTracer wraps every tools/call in a span.
func WithTracer(tracer trace.Tracer) DispatcherOption {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

func NewDispatcher(registry *Registry, info ServerInfo, options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry:   registry,
		serverInfo: info,
		metrics:    instrumentation.NoopMetrics(),
		tracer:     tracenoop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// ServeHTTP handles one JSON-RPC message per request. Notifications are
// acknowledged with 202 and no body; unreadable bodies are a 500 Internal error.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("method", req.Method).Msg("mcp dispatch panic")
			writeResponse(w, http.StatusInternalServerError, internalError(req.ID))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		log.Err(err).Msg("mcp read body")
		writeResponse(w, http.StatusInternalServerError, internalError(nil))
		return
	}
	if err := json.Unmarshal(body, &req); err != nil {
		log.Warn().Err(err).Msg("mcp malformed request")
		writeResponse(w, http.StatusInternalServerError, internalError(req.ID))
		return
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeResponse(w, http.StatusOK, d.Dispatch(r.Context(), &req))
}

// Dispatch routes a request that expects a response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return result(req.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      d.serverInfo,
		})
	case "ping":
		return result(req.ID, struct{}{})
	case "tools/list":
		return result(req.ID, d.toolsList())
	case "tools/call":
		return d.toolsCall(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found")
	}
}

func (d *Dispatcher) toolsList() toolsListResult {
	tools := d.registry.Tools()
	out := toolsListResult{Tools: make([]toolDescription, 0, len(tools))}
	for _, t := range tools {
		out.Tools = append(out.Tools, toolDescription{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

func (d *Dispatcher) toolsCall(ctx context.Context, req *Request) *Response {
	var params toolsCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeToolError, fmt.Sprintf("invalid params: %v", err))
		}
	}

	tool, ok := d.registry.Lookup(params.Name)
	if !ok {
		return errorResponse(req.ID, CodeMethodNotFound, "Unknown tool: "+params.Name)
	}

	ctx, span := d.tracer.Start(ctx, "mcp.tools/call", trace.WithAttributes(attribute.String("mcp.tool", tool.Name)))
	defer span.End()

	args, err := ParseArguments(params.Arguments)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		d.metrics.RecordToolCall(ctx, tool.Name, instrumentation.ResultInvalid)
		return errorResponse(req.ID, CodeToolError, err.Error())
	}

	value, err := tool.Handler(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Err(err).Str("tool", tool.Name).Msg("tool call failed")
		d.metrics.RecordToolCall(ctx, tool.Name, instrumentation.ResultError)
		msg := err.Error()
		if msg == "" {
			msg = "Tool execution failed"
		}
		return errorResponse(req.ID, CodeToolError, msg)
	}

	text, err := indentJSON(value)
	if err != nil {
		d.metrics.RecordToolCall(ctx, tool.Name, instrumentation.ResultError)
		return errorResponse(req.ID, CodeToolError, err.Error())
	}
	d.metrics.RecordToolCall(ctx, tool.Name, instrumentation.ResultSuccess)

	return result(req.ID, toolsCallResult{
		Content: []contentBlock{{Type: "text", Text: text}},
	})
}

// indentJSON renders v with two space indentation and without HTML escaping.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode tool result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func result(id json.RawMessage, v any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: v}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}

func internalError(id json.RawMessage) *Response {
	return errorResponse(id, CodeInternalError, "Internal error")
}

func writeResponse(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Err(err).Msg("mcp write response")
	}
}
