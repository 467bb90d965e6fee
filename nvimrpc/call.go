// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"context"
	"fmt"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// RawReader exposes an undecoded reply.
type RawReader = msgrpc.Reader

// RawWriter collects an encoded parameter array for CallWithWriter.
type RawWriter = msgrpc.Writer

func isVoid[R any]() bool {
	var r R
	_, ok := any(r).(Void)
	return ok
}

// Call invokes m with params and decodes the reply as R.
func Call[Tag any, P Tuple, R any](ctx context.Context, c *Client[Tag], m Method[P, R], params P) (R, error) {
	var result R
	info, err := c.prepare(m, CallSync)
	if err != nil {
		return result, err
	}
	err = c.runHook(ctx, info, func(ctx context.Context) error {
		if isVoid[R]() {
			return c.conn.Call(ctx, m.name, params.Values(), nil)
		}
		return c.conn.Call(ctx, m.name, params.Values(), &result)
	})
	return result, rpcError(c.info, err)
}

// CallWithReader invokes m with params and returns the reply undecoded. It
// accepts methods that are not auto-callable.
func CallWithReader[Tag any, P Tuple](ctx context.Context, c *Client[Tag], m Caller[P], params P) (*RawReader, error) {
	info, err := c.prepare(m, CallReader)
	if err != nil {
		return nil, err
	}
	var rd *RawReader
	err = c.runHook(ctx, info, func(ctx context.Context) error {
		var err error
		rd, err = c.conn.CallWithReader(ctx, m.Name(), params.Values())
		return err
	})
	return rd, rpcError(c.info, err)
}

// CallWithWriter validates m and returns a writer for its encoded parameter
// array. The request is sent by GetResultWithWriter or GetReaderWithWriter.
func CallWithWriter[Tag any](ctx context.Context, c *Client[Tag], m Ref) (*RawWriter, error) {
	if _, err := c.prepare(m, CallWriter); err != nil {
		return nil, err
	}
	return c.conn.CallWithWriter(ctx, m.Name())
}

// GetResultWithWriter sends the request collected in w and decodes the
// reply as R.
func GetResultWithWriter[R any, Tag any](ctx context.Context, c *Client[Tag], w *RawWriter) (R, error) {
	var result R
	err := c.runHook(ctx, c.callInfo(w.Method(), CallWriter), func(ctx context.Context) error {
		if isVoid[R]() {
			return c.conn.GetResultWithWriter(ctx, w, nil)
		}
		return c.conn.GetResultWithWriter(ctx, w, &result)
	})
	return result, rpcError(c.info, err)
}

// GetReaderWithWriter sends the request collected in w and returns the
// reply undecoded.
func GetReaderWithWriter[Tag any](ctx context.Context, c *Client[Tag], w *RawWriter) (*RawReader, error) {
	var rd *RawReader
	err := c.runHook(ctx, c.callInfo(w.Method(), CallWriter), func(ctx context.Context) error {
		var err error
		rd, err = c.conn.GetReaderWithWriter(ctx, w)
		return err
	})
	return rd, rpcError(c.info, err)
}

// Notify sends m as a notification. The peer does not reply.
func Notify[Tag any, P Tuple](ctx context.Context, c *Client[Tag], m Caller[P], params P) error {
	info, err := c.prepare(m, CallNotify)
	if err != nil {
		return err
	}
	return c.runHook(ctx, info, func(ctx context.Context) error {
		return c.conn.Notify(ctx, m.Name(), params.Values())
	})
}

// CallDynamic invokes catalog entry id with positional args and decodes the
// reply into a dynamically typed value.
func CallDynamic[Tag any](ctx context.Context, c *Client[Tag], id MethodID, args ...any) (any, error) {
	if id < 0 || int(id) >= c.cat.Len() {
		return nil, fmt.Errorf("nvimrpc: catalog %q has no method id %d", c.cat.name, id)
	}
	sig := c.cat.sigs[id]
	if !sig.AutoCallable {
		return nil, fmt.Errorf("%w: %s", ErrNotAutoCallable, sig.Name)
	}
	if len(args) != sig.Arity {
		return nil, &ArityError{Method: sig.Name, Want: sig.Arity, Got: len(args)}
	}
	m := methodRef{cat: c.cat, id: id, name: sig.Name}
	info, err := c.prepare(m, CallDynamicVar)
	if err != nil {
		return nil, err
	}
	if args == nil {
		args = []any{}
	}
	var result any
	err = c.runHook(ctx, info, func(ctx context.Context) error {
		return c.conn.Call(ctx, sig.Name, args, &result)
	})
	return result, rpcError(c.info, err)
}
