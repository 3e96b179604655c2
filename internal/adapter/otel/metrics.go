package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "stylecast"

// Metrics holds all StyleCast metric instruments.
type Metrics struct {
	Requests        metric.Int64Counter
	StageFailures   metric.Int64Counter
	RequestDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Requests, err = meter.Int64Counter("stylecast.requests",
		metric.WithDescription("Number of pipeline requests by action"))
	if err != nil {
		return nil, err
	}

	m.StageFailures, err = meter.Int64Counter("stylecast.stage.failures",
		metric.WithDescription("Number of recovered stage failures by kind"))
	if err != nil {
		return nil, err
	}

	m.RequestDuration, err = meter.Float64Histogram("stylecast.request.duration_seconds",
		metric.WithDescription("Request duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
