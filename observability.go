// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navlink

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// meterName identifies this package's instruments to the meter provider.
const meterName = "rivaas.dev/navlink"

// Recorder records prefetch lifecycle metrics through an OpenTelemetry
// meter and, optionally, opens a span around each dispatch. A nil *Recorder
// is valid everywhere one is accepted and records nothing.
//
// Instruments:
//
//	navlink.prefetch.scheduled   counter, attribute: strategy
//	navlink.prefetch.cancelled   counter, attribute: strategy
//	navlink.prefetch.dispatched  counter, attributes: strategy, outcome
//	navlink.prefetch.delay       histogram (ms), attribute: strategy
type Recorder struct {
	meter  metric.Meter
	tracer trace.Tracer

	scheduled  metric.Int64Counter
	cancelled  metric.Int64Counter
	dispatched metric.Int64Counter
	delay      metric.Float64Histogram
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// WithMeterProvider sets the meter provider the Recorder creates its
// instruments on. Required; NewRecorder fails without one (use
// NewMeterProvider for a built-in Prometheus, OTLP, or stdout provider).
func WithMeterProvider(provider metric.MeterProvider) RecorderOption {
	return func(c *recorderConfig) { c.meterProvider = provider }
}

// WithTracerProvider enables a span named "navlink.dispatch" around every
// dispatch. Optional; without it dispatches are not traced.
func WithTracerProvider(provider trace.TracerProvider) RecorderOption {
	return func(c *recorderConfig) { c.tracerProvider = provider }
}

// NewRecorder creates a Recorder. It returns an error when instrument
// creation fails or no meter provider was supplied, since a Recorder that
// silently records nothing would be indistinguishable from a working one.
func NewRecorder(opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.meterProvider == nil {
		return nil, fmt.Errorf("recorder: %w", ErrUnsupportedProvider)
	}

	r := &Recorder{meter: cfg.meterProvider.Meter(meterName)}
	if cfg.tracerProvider != nil {
		r.tracer = cfg.tracerProvider.Tracer(meterName)
	} else {
		r.tracer = tracenoop.NewTracerProvider().Tracer(meterName)
	}

	var err error
	if r.scheduled, err = r.meter.Int64Counter(
		"navlink.prefetch.scheduled",
		metric.WithDescription("Prefetch dispatches scheduled by hover"),
	); err != nil {
		return nil, fmt.Errorf("recorder: create scheduled counter: %w", err)
	}
	if r.cancelled, err = r.meter.Int64Counter(
		"navlink.prefetch.cancelled",
		metric.WithDescription("Scheduled prefetches cancelled before dispatch"),
	); err != nil {
		return nil, fmt.Errorf("recorder: create cancelled counter: %w", err)
	}
	if r.dispatched, err = r.meter.Int64Counter(
		"navlink.prefetch.dispatched",
		metric.WithDescription("Prefetch dispatch attempts by outcome"),
	); err != nil {
		return nil, fmt.Errorf("recorder: create dispatched counter: %w", err)
	}
	if r.delay, err = r.meter.Float64Histogram(
		"navlink.prefetch.delay",
		metric.WithDescription("Configured hover-to-dispatch delay at schedule time"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("recorder: create delay histogram: %w", err)
	}
	return r, nil
}

func strategyAttr(strategy RouterType) attribute.KeyValue {
	return attribute.String("strategy", string(strategy))
}

func (r *Recorder) recordScheduled(strategy RouterType, delay time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(strategyAttr(strategy))
	r.scheduled.Add(context.Background(), 1, attrs)
	r.delay.Record(context.Background(), float64(delay)/float64(time.Millisecond), attrs)
}

func (r *Recorder) recordCancelled(strategy RouterType) {
	if r == nil {
		return
	}
	r.cancelled.Add(context.Background(), 1, metric.WithAttributes(strategyAttr(strategy)))
}

func (r *Recorder) recordDispatch(strategy RouterType, ok bool) {
	if r == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	ctx, span := r.tracer.Start(context.Background(), "navlink.dispatch",
		trace.WithAttributes(strategyAttr(strategy), attribute.String("outcome", outcome)))
	r.dispatched.Add(ctx, 1, metric.WithAttributes(
		strategyAttr(strategy),
		attribute.String("outcome", outcome),
	))
	span.End()
}
