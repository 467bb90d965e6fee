// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package benchmark

import (
	"context"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

// generate sends count bench_tick notifications {i, i * 10} before it
// replies with count, so the client serves them while it waits.
func generate(ctx context.Context, p *nvimtest.Peer, args []any) (any, error) {
	if len(args) != 1 {
		return nil, nvimtest.Validation("bench_generate: expected 1 argument, got %d", len(args))
	}
	count, ok := args[0].(int64)
	if !ok || count < 0 {
		return nil, nvimtest.Validation("bench_generate: invalid count %v", args[0])
	}
	for i := range count {
		if err := p.Notify(ctx, TickEvent, i, i*10); err != nil {
			return nil, err
		}
	}
	return count, nil
}

// transform scales every value by factor.
func transform(_ context.Context, _ *nvimtest.Peer, args []any) (any, error) {
	if len(args) != 2 {
		return nil, nvimtest.Validation("bench_transform: expected 2 arguments, got %d", len(args))
	}
	factor, err := number(args[0])
	if err != nil {
		return nil, err
	}
	values, _ := args[1].([]any)
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := number(v)
		if err != nil {
			return nil, err
		}
		out[i] = f * factor
	}
	return out, nil
}

// Ticks counts bench_tick notifications received by a client.
type Ticks struct {
	Count int64
	Sum   int64
}

// Register installs the tick handler on r.
func (t *Ticks) Register(r *nvimrpc.Router) {
	nvimrpc.HandleNotification(r, TickEvent, func(_ context.Context, _ *nvimrpc.RequestContext, p nvimrpc.Tuple2[int64, int64]) {
		t.Count++
		t.Sum += p.V2
	})
}
