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
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Provider names a built-in metrics backend.
type Provider string

const (
	// PrometheusProvider exposes metrics through a pull-based Prometheus
	// registry; serve MeterProvider.Handler on a scrape endpoint.
	PrometheusProvider Provider = "prometheus"

	// OTLPProvider pushes metrics to an OTLP/HTTP collector.
	OTLPProvider Provider = "otlp"

	// StdoutProvider prints metrics to stdout; intended for development.
	StdoutProvider Provider = "stdout"
)

// MeterProvider bundles an SDK meter provider with the backend it exports
// to. It satisfies the needs of WithMeterProvider through Provider().
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler
}

// ProviderOption configures NewMeterProvider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	provider       Provider
	otlpEndpoint   string
	exportInterval time.Duration
	registry       *promclient.Registry
}

// WithPrometheus selects the Prometheus backend with a private registry.
func WithPrometheus() ProviderOption {
	return func(c *providerConfig) { c.provider = PrometheusProvider }
}

// WithPrometheusRegistry selects the Prometheus backend exporting into the
// given registry instead of a private one.
func WithPrometheusRegistry(reg *promclient.Registry) ProviderOption {
	return func(c *providerConfig) {
		c.provider = PrometheusProvider
		c.registry = reg
	}
}

// WithOTLP selects the OTLP/HTTP backend. The endpoint accepts host:port
// with an optional http:// or https:// prefix; http:// implies an insecure
// connection.
func WithOTLP(endpoint string) ProviderOption {
	return func(c *providerConfig) {
		c.provider = OTLPProvider
		c.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout backend.
func WithStdout() ProviderOption {
	return func(c *providerConfig) { c.provider = StdoutProvider }
}

// WithExportInterval sets the push interval for the OTLP and stdout
// backends. Default: 30s. Ignored by Prometheus (pull-based).
func WithExportInterval(interval time.Duration) ProviderOption {
	return func(c *providerConfig) { c.exportInterval = interval }
}

// NewMeterProvider builds a meter provider backed by one of the built-in
// exporters. Default backend is Prometheus with a private registry.
func NewMeterProvider(opts ...ProviderOption) (*MeterProvider, error) {
	cfg := providerConfig{
		provider:       PrometheusProvider,
		exportInterval: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.provider {
	case PrometheusProvider:
		return newPrometheusProvider(cfg)
	case OTLPProvider:
		return newOTLPProvider(cfg)
	case StdoutProvider:
		return newStdoutProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.provider)
	}
}

func newPrometheusProvider(cfg providerConfig) (*MeterProvider, error) {
	registry := cfg.registry
	if registry == nil {
		// Private registry avoids collisions with the process-global one.
		registry = promclient.NewRegistry()
	}
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	return &MeterProvider{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}, nil
}

func newOTLPProvider(cfg providerConfig) (*MeterProvider, error) {
	opts := []otlpmetrichttp.Option{}
	if cfg.otlpEndpoint != "" {
		endpoint := cfg.otlpEndpoint
		insecure := false
		if strings.HasPrefix(endpoint, "http://") {
			endpoint = strings.TrimPrefix(endpoint, "http://")
			insecure = true
		} else {
			endpoint = strings.TrimPrefix(endpoint, "https://")
		}
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.exportInterval))
	return &MeterProvider{provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}, nil
}

func newStdoutProvider(cfg providerConfig) (*MeterProvider, error) {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.exportInterval))
	return &MeterProvider{provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))}, nil
}

// Provider returns the underlying OpenTelemetry meter provider for use with
// WithMeterProvider.
func (m *MeterProvider) Provider() metric.MeterProvider {
	return m.provider
}

// Handler returns the Prometheus scrape handler, or nil for push-based
// backends.
func (m *MeterProvider) Handler() http.Handler {
	return m.handler
}

// Shutdown flushes and stops the provider.
func (m *MeterProvider) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
