package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Result values attached to flow and tool counters.
const (
	ResultSuccess = "success"
	ResultDenied  = "denied"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics holds the metric instruments
type Metrics struct {
	AuthorizationStarted metric.Int64Counter
	CallbackProcessed    metric.Int64Counter
	CodeExchanged        metric.Int64Counter
	TokenRefreshed       metric.Int64Counter
	ClientRegistered     metric.Int64Counter
	RateLimitExceeded    metric.Int64Counter
	ToolCalls            metric.Int64Counter
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, err := newMetrics(noop.NewMeterProvider().Meter(meterName))
	if err != nil {
		panic(err)
	}
	return m
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&m.AuthorizationStarted, "oauth.authorization.started", "Number of authorization flows started", "{flow}"},
		{&m.CallbackProcessed, "oauth.callback.processed", "Number of provider callbacks processed", "{callback}"},
		{&m.CodeExchanged, "oauth.code.exchanged", "Number of authorization code redemptions", "{exchange}"},
		{&m.TokenRefreshed, "oauth.token.refreshed", "Number of refresh token grants", "{refresh}"},
		{&m.ClientRegistered, "oauth.client.registered", "Number of dynamically registered clients", "{client}"},
		{&m.RateLimitExceeded, "oauth.rate_limit.exceeded", "Number of requests rejected by a rate limiter", "{request}"},
		{&m.ToolCalls, "mcp.tool.calls", "Number of tools/call invocations", "{call}"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return m, nil
}

func (m *Metrics) RecordAuthorizationStarted(ctx context.Context, clientID string) {
	m.AuthorizationStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client_id", clientID),
	))
}

func (m *Metrics) RecordCallbackProcessed(ctx context.Context, result string) {
	m.CallbackProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordCodeExchange(ctx context.Context, result string) {
	m.CodeExchanged.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordTokenRefresh(ctx context.Context, result string) {
	m.TokenRefreshed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
	))
}

func (m *Metrics) RecordClientRegistration(ctx context.Context) {
	m.ClientRegistered.Add(ctx, 1)
}

func (m *Metrics) RecordRateLimitExceeded(ctx context.Context, limiter string) {
	m.RateLimitExceeded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("limiter", limiter),
	))
}

func (m *Metrics) RecordToolCall(ctx context.Context, tool, result string) {
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("result", result),
	))
}
