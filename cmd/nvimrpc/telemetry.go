// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"

	"github.com/juju/errors"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	nvimotel "github.com/Query-farm/nvim-rpc/nvimrpc/otel"
)

// telemetry exports spans and metrics of CLI calls to a writer.
type telemetry struct {
	hook   nvimrpc.CallHook
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

func newTelemetry(w io.Writer) (*telemetry, error) {
	spanExp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, errors.Annotate(err, "trace exporter")
	}
	metricExp, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, errors.Annotate(err, "metric exporter")
	}
	t := &telemetry{
		tracer: sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExp)),
		meter:  sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp))),
	}
	cfg := nvimotel.DefaultConfig()
	cfg.TracerProvider = t.tracer
	cfg.MeterProvider = t.meter
	cfg.ServiceName = "nvimrpc"
	t.hook = nvimotel.NewHook(cfg)
	return t, nil
}

// shutdown flushes pending metrics and stops both providers.
func (t *telemetry) shutdown(ctx context.Context) error {
	return errors.Trace(firstError(t.meter.Shutdown(ctx), t.tracer.Shutdown(ctx)))
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
