// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package nvimotel provides OpenTelemetry instrumentation for nvimrpc
// clients. It implements the [nvimrpc.CallHook] interface to add client
// spans and metrics to every call.
//
// Usage:
//
//	client, err := nvimrpc.Open[Editor](ctx, api, conn, conn, nvimrpc.Options{
//		Hook: nvimotel.NewHook(nvimotel.DefaultConfig()),
//	})
package nvimotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

const instrumentationName = "nvim_rpc"

// OtelConfig configures OpenTelemetry instrumentation for an nvimrpc client.
type OtelConfig struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordExceptions calls RecordError on the span for failed calls.
	// Default true.
	RecordExceptions bool
	// ServiceName is the rpc.service attribute value. Defaults to the
	// catalog name of each call.
	ServiceName string
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns an OtelConfig with sensible defaults.
// TracerProvider and MeterProvider are resolved from the global OTel SDK
// when the hook is created.
func DefaultConfig() OtelConfig {
	return OtelConfig{
		EnableTracing:    true,
		EnableMetrics:    true,
		RecordExceptions: true,
	}
}

// NewHook returns a CallHook recording spans and metrics per cfg.
func NewHook(cfg OtelConfig) nvimrpc.CallHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	hook := &otelHook{
		cfg:    cfg,
		tracer: cfg.TracerProvider.Tracer(instrumentationName),
	}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		hook.requestCounter, _ = meter.Int64Counter("rpc.client.requests",
			metric.WithUnit("{request}"),
			metric.WithDescription("Number of RPC requests"),
		)
		hook.durationHistogram, _ = meter.Float64Histogram("rpc.client.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of RPC requests"),
		)
	}
	return hook
}

// otelHook implements nvimrpc.CallHook with OpenTelemetry tracing and metrics.
type otelHook struct {
	cfg               OtelConfig
	tracer            trace.Tracer
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// spanToken is the HookToken returned by OnCallStart.
type spanToken struct {
	span      trace.Span
	startTime time.Time
}

func (h *otelHook) service(info nvimrpc.CallInfo) string {
	if h.cfg.ServiceName != "" {
		return h.cfg.ServiceName
	}
	return info.Catalog
}

// OnCallStart starts a client span.
func (h *otelHook) OnCallStart(ctx context.Context, info nvimrpc.CallInfo) (context.Context, nvimrpc.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := []attribute.KeyValue{
		attribute.String("rpc.system", "msgpack_rpc"),
		attribute.String("rpc.service", h.service(info)),
		attribute.String("rpc.method", info.Method),
		attribute.String("rpc.nvim.variant", info.Variant),
		attribute.Int64("rpc.nvim.channel_id", info.ChannelID),
	}
	attrs = append(attrs, h.cfg.CustomAttributes...)

	ctx, span := h.tracer.Start(ctx, "nvim_rpc/"+info.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, &spanToken{span: span, startTime: time.Now()}
}

// OnCallEnd records span attributes, metrics, and ends the span.
func (h *otelHook) OnCallEnd(ctx context.Context, token nvimrpc.HookToken, info nvimrpc.CallInfo, stats *nvimrpc.CallStatistics, err error) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}

	duration := time.Since(st.startTime)

	status := "ok"
	if err != nil {
		status = "error"
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(
			attribute.String("rpc.system", "msgpack_rpc"),
			attribute.String("rpc.service", h.service(info)),
			attribute.String("rpc.method", info.Method),
			attribute.String("rpc.nvim.variant", info.Variant),
			attribute.String("status", status),
		)
		if h.requestCounter != nil {
			h.requestCounter.Add(ctx, 1, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
	}

	if st.span != nil && st.span.IsRecording() {
		if stats != nil {
			st.span.SetAttributes(
				attribute.Int64("rpc.nvim.sent_bytes", stats.SentBytes),
				attribute.Int64("rpc.nvim.received_bytes", stats.ReceivedBytes),
			)
		}

		if err != nil {
			st.span.SetStatus(codes.Error, err.Error())
			if h.cfg.RecordExceptions {
				st.span.RecordError(err)
			}
			errType := fmt.Sprintf("%T", err)
			var rpcErr *nvimrpc.RpcError
			if errors.As(err, &rpcErr) && rpcErr.Type != "" {
				errType = rpcErr.Type
			}
			st.span.SetAttributes(attribute.String("rpc.nvim.error_type", errType))
		} else {
			st.span.SetStatus(codes.Ok, "")
		}

		st.span.End()
	}
}
