package node

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the OpenTelemetry instruments recorded per node run.
type Metrics struct {
	invocations metric.Int64Counter
	latency     metric.Float64Histogram
	items       metric.Int64Counter
}

// NewMetrics registers node instruments on meter. A nil meter yields nil metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		return nil, nil
	}
	invocations, err := meter.Int64Counter(
		"chatwoot_node_invocations_total",
		metric.WithDescription("Total node runs grouped by status"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"chatwoot_node_latency_seconds",
		metric.WithDescription("Node run latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	items, err := meter.Int64Counter(
		"chatwoot_node_items_total",
		metric.WithDescription("Items processed by nodes grouped by status"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{invocations: invocations, latency: latency, items: items}, nil
}

// RecordRun records one node run. errorCode is optional.
func (m *Metrics) RecordRun(
	ctx context.Context,
	nodeID string,
	status string,
	duration time.Duration,
	succeeded int,
	failed int,
	errorCode string,
) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("node_id", nodeID),
		attribute.String("status", status),
	}
	if errorCode != "" {
		attrs = append(attrs, attribute.String("error_code", errorCode))
	}
	m.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.latency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("node_id", nodeID),
		attribute.String("status", status),
	))
	if succeeded > 0 {
		m.items.Add(ctx, int64(succeeded), metric.WithAttributes(
			attribute.String("node_id", nodeID),
			attribute.String("status", StatusSuccess),
		))
	}
	if failed > 0 {
		m.items.Add(ctx, int64(failed), metric.WithAttributes(
			attribute.String("node_id", nodeID),
			attribute.String("status", StatusFailure),
		))
	}
}
