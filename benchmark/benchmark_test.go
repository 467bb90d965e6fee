// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package benchmark_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	qt "github.com/frankban/quicktest"
	"go.uber.org/goleak"

	"github.com/Query-farm/nvim-rpc/benchmark"
	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
	"github.com/Query-farm/nvim-rpc/snapshot"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type bench struct{}

// open connects a client to a fixture peer and closes both at cleanup.
func open(tb testing.TB, ticks *benchmark.Ticks) *nvimrpc.Client[bench] {
	tb.Helper()
	ctx := context.Background()
	peer := nvimtest.NewPeer(benchmark.Info())
	peer.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	benchmark.RegisterMethods(peer)
	conn, wait := peer.Start(ctx)

	router := nvimrpc.NewRouter()
	if ticks != nil {
		ticks.Register(router)
	}
	client, err := nvimrpc.Open[bench](ctx, benchmark.Catalog, conn, conn, nvimrpc.Options{Router: router})
	if err != nil {
		conn.Close()
		wait()
		tb.Fatalf("open: %v", err)
	}
	tb.Cleanup(func() {
		client.Close()
		wait()
	})
	return client
}

func TestFixture(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	var ticks benchmark.Ticks
	client := open(t, &ticks)

	_, err := nvimrpc.Call(ctx, client, benchmark.Noop, nvimrpc.T0())
	c.Assert(err, qt.IsNil)

	sum, err := nvimrpc.Call(ctx, client, benchmark.Add, nvimrpc.T2(1.5, 2.25))
	c.Assert(err, qt.IsNil)
	c.Assert(sum, qt.Equals, 3.75)

	greeting, err := nvimrpc.Call(ctx, client, benchmark.Greet, nvimrpc.T1("nvim"))
	c.Assert(err, qt.IsNil)
	c.Assert(greeting, qt.Equals, "Hello, nvim!")

	s, err := nvimrpc.Call(ctx, client, benchmark.RoundtripTypes,
		nvimrpc.T3("GREEN", map[string]int64{"b": 2, "a": 1}, []int64{3, 1, 2}))
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "GREEN:true:{'a': 1, 'b': 2}:[1, 2, 3]")

	n, err := nvimrpc.Call(ctx, client, benchmark.Generate, nvimrpc.T1(int64(4)))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(4))
	c.Assert(ticks, qt.Equals, benchmark.Ticks{Count: 4, Sum: 60})

	scaled, err := nvimrpc.Call(ctx, client, benchmark.Transform, nvimrpc.T2(2.0, []float64{1, 2.5}))
	c.Assert(err, qt.IsNil)
	c.Assert(scaled, qt.DeepEquals, []float64{2, 5})

	w, err := nvimrpc.CallWithWriter(ctx, client, benchmark.Transform)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Encode([]any{0.5, []float64{4, 8}}), qt.IsNil)
	scaled, err = nvimrpc.GetResultWithWriter[[]float64](ctx, client, w)
	c.Assert(err, qt.IsNil)
	c.Assert(scaled, qt.DeepEquals, []float64{2, 4})

	_, err = nvimrpc.Call(ctx, client, benchmark.Generate, nvimrpc.T1(int64(-1)))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrRpc)
}

func BenchmarkNoop(b *testing.B) {
	ctx := context.Background()
	client := open(b, nil)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.Noop, nvimrpc.T0()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAdd(b *testing.B) {
	ctx := context.Background()
	client := open(b, nil)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.Add, nvimrpc.T2(1.0, 2.0)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRoundtripTypes(b *testing.B) {
	ctx := context.Background()
	client := open(b, nil)
	params := nvimrpc.T3("RED", map[string]int64{"x": 1, "y": 2, "z": 3}, []int64{5, 4, 3, 2, 1})
	b.ReportAllocs()
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.RoundtripTypes, params); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNoopWithoutValidation(b *testing.B) {
	ctx := context.Background()
	peer := nvimtest.NewPeer(benchmark.Info())
	benchmark.RegisterMethods(peer)
	conn, wait := peer.Start(ctx)
	client, err := nvimrpc.Open[bench](ctx, benchmark.Catalog, conn, conn, nvimrpc.Options{SkipValidation: true})
	if err != nil {
		b.Fatal(err)
	}
	defer func() {
		client.Close()
		wait()
	}()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.Noop, nvimrpc.T0()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	ctx := context.Background()
	var ticks benchmark.Ticks
	client := open(b, &ticks)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.Generate, nvimrpc.T1(int64(100))); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransform(b *testing.B) {
	ctx := context.Background()
	client := open(b, nil)
	values := make([]float64, 1024)
	for i := range values {
		values[i] = float64(i)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(values) * 9))
	for b.Loop() {
		if _, err := nvimrpc.Call(ctx, client, benchmark.Transform, nvimrpc.T2(2.0, values)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransformWithWriter(b *testing.B) {
	ctx := context.Background()
	client := open(b, nil)
	values := make([]float64, 1024)
	for i := range values {
		values[i] = float64(i)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(values) * 9))
	for b.Loop() {
		w, err := nvimrpc.CallWithWriter(ctx, client, benchmark.Transform)
		if err != nil {
			b.Fatal(err)
		}
		if err := w.Encode([]any{2.0, values}); err != nil {
			b.Fatal(err)
		}
		if _, err := nvimrpc.GetReaderWithWriter(ctx, client, w); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeApiInfo(b *testing.B) {
	raw, err := benchmark.Info().Msgpack()
	if err != nil {
		b.Fatal(err)
	}
	mem := memory.NewGoAllocator()
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	for b.Loop() {
		info, err := nvimrpc.DecodeApiInfo(mem, raw)
		if err != nil {
			b.Fatal(err)
		}
		info.Release()
	}
}

func BenchmarkSnapshotLoad(b *testing.B) {
	raw, err := benchmark.Info().Msgpack()
	if err != nil {
		b.Fatal(err)
	}
	var buf bytes.Buffer
	if err := snapshot.Save(&buf, raw); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	for b.Loop() {
		if _, err := snapshot.Load(bytes.NewReader(buf.Bytes())); err != nil {
			b.Fatal(err)
		}
	}
}
