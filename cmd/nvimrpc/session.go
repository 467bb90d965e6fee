// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"

	"github.com/Query-farm/nvim-rpc/nvimapi"
	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// cli is the role tag of the command line client.
type cli struct{}

// session is an open client plus the transport under it.
type session struct {
	client    *nvimrpc.Client[cli]
	transport io.Closer
	telemetry *telemetry
}

// connect opens the configured transport: the listen address when set,
// otherwise an embedded nvim.
func (a *app) connect(ctx context.Context) (io.ReadWriteCloser, error) {
	if a.cfg.Address != "" {
		a.logger.Debug("dialing", "address", a.cfg.Address)
		conn, err := nvimrpc.Dial(ctx, a.cfg.Address)
		return conn, errors.Trace(err)
	}
	a.logger.Debug("embedding", "path", a.cfg.Embed, "args", a.cfg.EmbedArgs)
	proc, err := nvimrpc.Embed(context.WithoutCancel(ctx), a.cfg.Embed, a.cfg.EmbedArgs...)
	return proc, errors.Trace(err)
}

// open connects and runs the handshake against the nvimapi catalog.
func (a *app) open(ctx context.Context, router *nvimrpc.Router) (*session, error) {
	rw, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	s := &session{transport: rw}
	opts := nvimrpc.Options{
		Logger:         a.logger,
		EnableLogging:  a.cfg.LogTraffic,
		SkipValidation: a.cfg.SkipValidation,
		MaxMessageSize: a.cfg.MaxMessageSize,
		Router:         router,
	}
	if a.cfg.Trace {
		if s.telemetry, err = newTelemetry(a.errOut); err != nil {
			rw.Close()
			return nil, err
		}
		opts.Hook = s.telemetry.hook
	}
	s.client, err = nvimrpc.Open[cli](ctx, nvimapi.Catalog, rw, rw, opts)
	if err != nil {
		if s.telemetry != nil {
			s.telemetry.shutdown(ctx)
		}
		return nil, errors.Annotate(err, "connecting to nvim")
	}
	a.logger.Debug("connected",
		"channel", s.client.ChannelID(),
		"version", s.client.ApiInfo().Version().String(),
	)
	return s, nil
}

func (s *session) close(ctx context.Context, logger *slog.Logger) {
	if err := s.client.Close(); err != nil {
		logger.Debug("closing session", "err", err)
	}
	if s.telemetry != nil {
		if err := s.telemetry.shutdown(ctx); err != nil {
			logger.Warn("flushing telemetry", "err", err)
		}
	}
}

// fetchApiInfo returns the raw api-info map of a live peer.
func (a *app) fetchApiInfo(ctx context.Context) ([]byte, error) {
	s, err := a.open(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer s.close(ctx, a.logger)

	r, err := nvimrpc.CallWithReader(ctx, s.client, nvimapi.GetApiInfo, nvimrpc.T0())
	if err != nil {
		return nil, errors.Annotate(err, nvimrpc.HandshakeMethod)
	}
	var pair []codec.Raw
	if err := r.Decode(&pair); err != nil {
		return nil, errors.Annotate(err, nvimrpc.HandshakeMethod)
	}
	if len(pair) != 2 {
		return nil, errors.NotValidf("%s reply with %d values", nvimrpc.HandshakeMethod, len(pair))
	}
	return append([]byte(nil), pair[1]...), nil
}
