// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/calcvm/consts"
)

const (
	defaultEndpoint = "http://localhost:9411/api/v2/spans"

	exportTimeout = 10 * time.Second
	// Must exceed [exportTimeout] so queued spans are flushed on Close.
	shutdownTimeout = 15 * time.Second
)

type Config struct {
	Enabled bool `json:"enabled"`

	// Zipkin collector. Defaults to a collector on localhost.
	Endpoint string `json:"endpoint"`

	// Fraction of root spans sampled: >= 1 samples everything, <= 0
	// nothing. Child spans follow their parent.
	TraceSampleRate float64 `json:"traceSampleRate"`

	AppName string `json:"appName"`
	Version string `json:"version"`
}

func (c *Config) appName() string {
	if c.AppName == "" {
		return consts.Name
	}
	return c.AppName
}

// provider exposes an sdk tracer provider as an avalanchego tracer.
type provider struct {
	oteltrace.Tracer

	tp *sdktrace.TracerProvider
}

func (p *provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return p.tp.Shutdown(ctx)
}

// New returns a tracer exporting to zipkin, or one that records nothing
// when tracing is disabled.
func New(config *Config) (trace.Tracer, error) {
	if !config.Enabled {
		return newNoOpTracer(config.appName()), nil
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create zipkin exporter for %s: %w", endpoint, err)
	}
	return newProvider(config, sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout))), nil
}

// newProvider wires [pipeline], which receives every sampled span, into
// a tracer named after the app.
func newProvider(config *Config, pipeline sdktrace.TracerProviderOption) *provider {
	tp := sdktrace.NewTracerProvider(
		pipeline,
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.appName()),
			semconv.ServiceVersionKey.String(config.Version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.TraceSampleRate))),
	)
	return &provider{
		Tracer: tp.Tracer(config.appName()),
		tp:     tp,
	}
}
