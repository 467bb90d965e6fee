// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/ugorji/go/codec"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// Options configures Open. The zero value is usable.
type Options struct {
	// Allocator owns the api-info tables. Defaults to the Arrow Go
	// allocator.
	Allocator memory.Allocator
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// EnableLogging logs every msgpack-rpc frame at debug level.
	EnableLogging bool
	// SkipValidation disables the api-info check before each call.
	SkipValidation bool
	// MaxMessageSize bounds encoded parameters, writer payloads and
	// replies in bytes. It applies after the handshake.
	// Zero means unbounded.
	MaxMessageSize int
	// Router serves requests and notifications initiated by the peer.
	Router *Router
	// Hook observes every call made through the client.
	Hook CallHook
}

// Client is a typed msgpack-rpc session with a Neovim peer. Tag names the
// role the client plays; clients with different tags are distinct types.
//
// A Client is used by one logical caller at a time. It holds no locks and
// starts no goroutines.
type Client[Tag any] struct {
	conn      *msgrpc.Conn
	cat       *Catalog
	info      *ApiInfo
	channelID int64
	logger    *slog.Logger
	validate  bool
	hook      CallHook
	closed    bool
}

// Open starts a session over w and r: it issues the handshake and stores
// the channel id and api-info the peer returns. On failure the transport is
// closed and nothing is leaked.
func Open[Tag any](ctx context.Context, cat *Catalog, w io.Writer, r io.Reader, opts Options) (*Client[Tag], error) {
	if cat == nil {
		return nil, errors.New("nvimrpc: nil catalog")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	var handler msgrpc.Handler
	if opts.Router != nil {
		handler = opts.Router
		if opts.Router.logger == nil {
			opts.Router.logger = opts.Logger
		}
	}
	conn := msgrpc.NewConn(w, r, msgrpc.Options{
		Handle:        NewHandle(),
		Handler:       handler,
		Logger:        opts.Logger,
		EnableLogging: opts.EnableLogging,
	})

	channelID, info, err := handshake(ctx, conn, opts.Allocator)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetMaxMessageSize(opts.MaxMessageSize)
	if opts.Router != nil {
		opts.Router.channelID = channelID
	}
	checkHandleTypes(opts.Logger, info)

	return &Client[Tag]{
		conn:      conn,
		cat:       cat,
		info:      info,
		channelID: channelID,
		logger:    opts.Logger,
		validate:  !opts.SkipValidation,
		hook:      opts.Hook,
	}, nil
}

func handshake(ctx context.Context, conn *msgrpc.Conn, mem memory.Allocator) (int64, *ApiInfo, error) {
	rd, err := conn.CallWithReader(ctx, HandshakeMethod, []any{})
	if err != nil {
		var cerr *ConnectionError
		if errors.As(err, &cerr) {
			return 0, nil, err
		}
		return 0, nil, &ConnectionError{Op: "handshake", Err: err}
	}
	var parts []codec.Raw
	if err := rd.Decode(&parts); err != nil {
		return 0, nil, &ConnectionError{Op: "handshake", Err: err}
	}
	if len(parts) != 2 {
		return 0, nil, &ConnectionError{Op: "handshake", Err: fmt.Errorf("%s returned %d values, want 2", HandshakeMethod, len(parts))}
	}
	var channelID int64
	if err := msgrpc.Unmarshal(plainHandle, parts[0], &channelID); err != nil {
		return 0, nil, &ConnectionError{Op: "handshake", Err: err}
	}
	info, err := DecodeApiInfo(mem, parts[1])
	if err != nil {
		return 0, nil, &ConnectionError{Op: "handshake", Err: err}
	}
	return channelID, info, nil
}

// checkHandleTypes warns when the peer assigns ext ids other than the ones
// the msgpack handle registers.
func checkHandleTypes(logger *slog.Logger, info *ApiInfo) {
	for kind, want := range map[string]int64{TypeBuffer: ExtBuffer, TypeWindow: ExtWindow, TypeTabpage: ExtTabpage} {
		if ht, ok := info.HandleType(kind); ok && ht.ID != want {
			logger.Warn("nvimrpc: unexpected handle ext id", "kind", kind, "id", ht.ID, "want", want)
		}
	}
}

// Close shuts the transport down and then releases the api-info. Calls made
// after Close fail with ErrClosed.
func (c *Client[Tag]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	defer c.info.Release()
	return c.conn.Close()
}

// Loop serves peer-initiated traffic until the peer disconnects (nil) or a
// connection error occurs.
func (c *Client[Tag]) Loop(ctx context.Context) error {
	return c.conn.Loop(ctx)
}

// ChannelID returns the channel id the peer assigned in the handshake.
func (c *Client[Tag]) ChannelID() int64 { return c.channelID }

// ApiInfo returns the peer's metadata. It is released by Close and must not
// be used afterwards.
func (c *Client[Tag]) ApiInfo() *ApiInfo { return c.info }

// Catalog returns the catalog the client was opened with.
func (c *Client[Tag]) Catalog() *Catalog { return c.cat }

// prepare checks that m belongs to the client's catalog and passes
// validation, and returns the hook metadata for the call.
func (c *Client[Tag]) prepare(m Ref, variant string) (CallInfo, error) {
	info := CallInfo{
		Method:    m.Name(),
		MethodID:  m.ID(),
		Variant:   variant,
		Catalog:   c.cat.name,
		ChannelID: c.channelID,
	}
	if c.closed {
		return info, ErrClosed
	}
	if m.Catalog() != c.cat {
		return info, fmt.Errorf("%w: %s", ErrForeignMethod, m.Name())
	}
	if c.validate {
		if err := c.info.Validate(m.Name()); err != nil {
			return info, err
		}
	}
	return info, nil
}

// callInfo builds hook metadata for a method known only by name.
func (c *Client[Tag]) callInfo(method, variant string) CallInfo {
	id, ok := c.cat.Lookup(method)
	if !ok {
		id = -1
	}
	return CallInfo{Method: method, MethodID: id, Variant: variant, Catalog: c.cat.name, ChannelID: c.channelID}
}
