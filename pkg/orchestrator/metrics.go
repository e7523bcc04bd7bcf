package orchestrator

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/codeready-toolchain/hikari/pkg/orchestrator"

// runtimeMetrics holds the orchestrator loop's OpenTelemetry instruments:
// one histogram for step execution latency, one counter for step outcomes.
// Kept minimal since full tracing is out of scope; grounded on the pack's
// otel/metric wiring rather than hand-rolled counters.
type runtimeMetrics struct {
	stepDuration metric.Float64Histogram
	stepCount    metric.Int64Counter
}

var (
	defaultRuntimeMetrics     *runtimeMetrics
	defaultRuntimeMetricsOnce sync.Once
)

// newRuntimeMetrics builds runtimeMetrics from mp, creating the instruments
// once. Returns a no-op-safe zero value on instrument creation failure —
// metrics are an observability concern, never a reason to fail startup.
func newRuntimeMetrics(mp metric.MeterProvider) *runtimeMetrics {
	m := mp.Meter(meterName)
	rm := &runtimeMetrics{}

	rm.stepDuration, _ = m.Float64Histogram("hikari.orchestrator.step.duration",
		metric.WithDescription("Latency of a single step's Execute call."),
		metric.WithUnit("s"),
	)
	rm.stepCount, _ = m.Int64Counter("hikari.orchestrator.step.count",
		metric.WithDescription("Total step executions by step id and outcome."),
	)
	return rm
}

// defaultRuntimeMetricsInstance returns the package-level instrument set,
// built lazily against otel.GetMeterProvider() so tests and callers that
// never configure a MeterProvider still get safe no-op instruments.
func defaultRuntimeMetricsInstance() *runtimeMetrics {
	defaultRuntimeMetricsOnce.Do(func() {
		defaultRuntimeMetrics = newRuntimeMetrics(otel.GetMeterProvider())
	})
	return defaultRuntimeMetrics
}

// recordStep records one step execution's outcome and duration.
func (m *runtimeMetrics) recordStep(ctx context.Context, stepID string, seconds float64, outcome string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("step_id", stepID),
		attribute.String("outcome", outcome),
	)
	if m.stepDuration != nil {
		m.stepDuration.Record(ctx, seconds, attrs)
	}
	if m.stepCount != nil {
		m.stepCount.Add(ctx, 1, attrs)
	}
}
