// SPDX-License-Identifier: EPL-2.0

// Package observe records drumbox metrics through OpenTelemetry and
// exposes them for Prometheus scraping.
//
// Metrics implements both mixer.Observer and sequencer.Observer, so one
// instance can be handed to the engine and the driver.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for every drumbox metric.
const meterName = "github.com/ik5/drumbox"

// Metrics holds the OpenTelemetry instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// Clips counts mixed samples that hit the representation bound.
	Clips metric.Int64Counter

	// StreamsAdded counts clips accepted by the mixer.
	StreamsAdded metric.Int64Counter

	// ActiveStreams tracks how many clips are currently mixing.
	ActiveStreams metric.Int64UpDownCounter

	// Steps counts sequencer steps played.
	Steps metric.Int64Counter

	// Hits counts instrument hits dispatched by the sequencer.
	Hits metric.Int64Counter

	// DispatchFailures counts hits that could not be dispatched. Use with
	// attribute.String("instrument", ...).
	DispatchFailures metric.Int64Counter
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Clips, err = m.Int64Counter("drumbox.mixer.clips",
		metric.WithDescription("Mixed samples that reached the representation bound."),
	); err != nil {
		return nil, err
	}
	if met.StreamsAdded, err = m.Int64Counter("drumbox.mixer.streams_added",
		metric.WithDescription("Clips accepted for mixing."),
	); err != nil {
		return nil, err
	}
	if met.ActiveStreams, err = m.Int64UpDownCounter("drumbox.mixer.active_streams",
		metric.WithDescription("Clips currently mixing."),
	); err != nil {
		return nil, err
	}
	if met.Steps, err = m.Int64Counter("drumbox.sequencer.steps",
		metric.WithDescription("Pattern steps played."),
	); err != nil {
		return nil, err
	}
	if met.Hits, err = m.Int64Counter("drumbox.sequencer.hits",
		metric.WithDescription("Instrument hits dispatched to the engine."),
	); err != nil {
		return nil, err
	}
	if met.DispatchFailures, err = m.Int64Counter("drumbox.sequencer.dispatch_failures",
		metric.WithDescription("Instrument hits that could not be dispatched, by instrument."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// StreamAdded records a clip entering the mixer.
func (m *Metrics) StreamAdded() {
	ctx := context.Background()
	m.StreamsAdded.Add(ctx, 1)
	m.ActiveStreams.Add(ctx, 1)
}

// StreamsRemoved records n clips leaving the mixer.
func (m *Metrics) StreamsRemoved(n int) {
	m.ActiveStreams.Add(context.Background(), -int64(n))
}

// Clipped records one clipped sample.
func (m *Metrics) Clipped() {
	m.Clips.Add(context.Background(), 1)
}

// StepPlayed records a sequencer step and the hits it dispatched.
func (m *Metrics) StepPlayed(_, dispatched int) {
	ctx := context.Background()
	m.Steps.Add(ctx, 1)
	if dispatched > 0 {
		m.Hits.Add(ctx, int64(dispatched))
	}
}

// DispatchFailed records a hit that did not make it to the engine.
func (m *Metrics) DispatchFailed(instrument string) {
	m.DispatchFailures.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("instrument", instrument)),
	)
}
