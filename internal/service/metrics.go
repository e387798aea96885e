package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fittrack"

// counters used by the services; backed by the global MeterProvider (no-op unless telemetry is enabled)
type serviceMetrics struct {
	sessionsStarted    metric.Int64Counter
	sessionsCompleted  metric.Int64Counter
	monthFetchFailures metric.Int64Counter
}

func newServiceMetrics() *serviceMetrics {
	meter := otel.Meter(meterName)
	return &serviceMetrics{
		sessionsStarted:    counter(meter, "fittrack.sessions.started", "Workout sessions started"),
		sessionsCompleted:  counter(meter, "fittrack.sessions.completed", "Workout sessions completed"),
		monthFetchFailures: counter(meter, "fittrack.calendar.month_fetch_failures", "Calendar months skipped while building the consistency calendar"),
	}
}

func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logrus.WithError(err).WithField("metric", name).Warn("failed to create counter")
	}
	return c
}

func add(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
