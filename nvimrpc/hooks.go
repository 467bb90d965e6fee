// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import "context"

// CallHook provides observability callpoints around client calls. A hook
// is invoked on the caller's goroutine.
type CallHook interface {
	OnCallStart(ctx context.Context, info CallInfo) (context.Context, HookToken)
	OnCallEnd(ctx context.Context, token HookToken, info CallInfo, stats *CallStatistics, err error)
}

// HookToken is an opaque value returned by OnCallStart and passed back to
// OnCallEnd. Only meaningful to the CallHook that created it.
type HookToken interface{}

// CallInfo carries method metadata passed to hooks.
type CallInfo struct {
	Method    string   // remote method name
	MethodID  MethodID // catalog id, -1 when the method is not in the catalog
	Variant   string   // CallSync, CallReader, CallWriter, CallNotify or CallDynamicVar
	Catalog   string   // catalog name
	ChannelID int64    // channel id assigned by the peer
}

// CallStatistics holds per-call I/O counters.
type CallStatistics struct {
	SentBytes     int64 // frame bytes written
	ReceivedBytes int64 // payload bytes read, including peer traffic served during the call
}

// runHook calls fn between the hook's start and end callpoints. Peer
// errors reach the hook already decoded as *RpcError. Panics in the hook
// are recovered and logged.
func (c *Client[Tag]) runHook(ctx context.Context, info CallInfo, fn func(context.Context) error) error {
	if c.hook == nil {
		return rpcError(c.info, fn(ctx))
	}
	hookCtx, token := ctx, HookToken(nil)
	func() {
		defer func() {
			if rv := recover(); rv != nil {
				c.logger.Error("nvimrpc: call hook panic", "phase", "start", "method", info.Method, "err", rv)
			}
		}()
		hookCtx, token = c.hook.OnCallStart(ctx, info)
	}()
	if hookCtx == nil {
		hookCtx = ctx
	}
	sent0, recv0 := c.conn.Stats()
	err := rpcError(c.info, fn(hookCtx))
	sent1, recv1 := c.conn.Stats()
	stats := &CallStatistics{SentBytes: sent1 - sent0, ReceivedBytes: recv1 - recv0}
	func() {
		defer func() {
			if rv := recover(); rv != nil {
				c.logger.Error("nvimrpc: call hook panic", "phase", "end", "method", info.Method, "err", rv)
			}
		}()
		c.hook.OnCallEnd(hookCtx, token, info, stats, err)
	}()
	return err
}
