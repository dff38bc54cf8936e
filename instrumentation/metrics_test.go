package instrumentation_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jrsteele09/github-mcp-bridge/instrumentation"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]metricdata.Sum[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				sums[m.Name] = sum
			}
		}
	}
	return sums
}

func total(sum metricdata.Sum[int64], key, value string) int64 {
	var n int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			n += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			n += dp.Value
		}
	}
	return n
}

func TestMetrics_Recorded(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	inst, err := instrumentation.New(instrumentation.Config{Enabled: true, Reader: reader})
	require.NoError(t, err)
	defer func() { _ = inst.Shutdown(ctx) }()

	m := inst.Metrics()
	m.RecordAuthorizationStarted(ctx, "client-1")
	m.RecordAuthorizationStarted(ctx, "client-2")
	m.RecordCallbackProcessed(ctx, instrumentation.ResultSuccess)
	m.RecordCallbackProcessed(ctx, instrumentation.ResultDenied)
	m.RecordCodeExchange(ctx, instrumentation.ResultInvalid)
	m.RecordTokenRefresh(ctx, instrumentation.ResultSuccess)
	m.RecordClientRegistration(ctx)
	m.RecordRateLimitExceeded(ctx, "registration")
	m.RecordToolCall(ctx, "create_issue", instrumentation.ResultSuccess)
	m.RecordToolCall(ctx, "create_issue", instrumentation.ResultError)

	sums := collect(t, reader)
	require.EqualValues(t, 2, total(sums["oauth.authorization.started"], "", ""))
	require.EqualValues(t, 1, total(sums["oauth.callback.processed"], "result", instrumentation.ResultDenied))
	require.EqualValues(t, 1, total(sums["oauth.code.exchanged"], "result", instrumentation.ResultInvalid))
	require.EqualValues(t, 1, total(sums["oauth.token.refreshed"], "result", instrumentation.ResultSuccess))
	require.EqualValues(t, 1, total(sums["oauth.client.registered"], "", ""))
	require.EqualValues(t, 1, total(sums["oauth.rate_limit.exceeded"], "limiter", "registration"))
	require.EqualValues(t, 2, total(sums["mcp.tool.calls"], "tool", "create_issue"))
	require.EqualValues(t, 1, total(sums["mcp.tool.calls"], "result", instrumentation.ResultError))
}

func TestNew_Disabled(t *testing.T) {
	inst, err := instrumentation.New(instrumentation.Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, inst.Metrics())

	inst.Metrics().RecordToolCall(context.Background(), "list_repos", instrumentation.ResultSuccess)
	require.NoError(t, inst.Shutdown(context.Background()))
}

func TestNoopMetrics(t *testing.T) {
	m := instrumentation.NoopMetrics()
	m.RecordClientRegistration(context.Background())
}

func TestShutdown_Idempotent(t *testing.T) {
	inst, err := instrumentation.New(instrumentation.Config{Enabled: true, Reader: sdkmetric.NewManualReader()})
	require.NoError(t, err)
	require.NoError(t, inst.Shutdown(context.Background()))
	require.NoError(t, inst.Shutdown(context.Background()))
}

func TestNew_ExportsToWriterWithoutReader(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	inst, err := instrumentation.New(instrumentation.Config{Enabled: true, ExportWriter: &out})
	require.NoError(t, err)

	inst.Metrics().RecordToolCall(ctx, "list_repos", instrumentation.ResultSuccess)
	_, span := inst.Tracer("mcp").Start(ctx, "export-check")
	span.End()

	require.NoError(t, inst.Shutdown(ctx))
	require.Contains(t, out.String(), "mcp.tool.calls")
	require.Contains(t, out.String(), "export-check")
	require.Contains(t, out.String(), instrumentation.DefaultServiceName)
}
