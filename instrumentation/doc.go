// Package instrumentation records OpenTelemetry metrics for the OAuth flow
// and the tool dispatcher, and provides the tracer used for tool-call spans.
// When disabled every instrument and tracer is a no-op. When enabled without
// an injected reader or span processor, metrics and spans are exported as
// JSON to stdout.
package instrumentation
