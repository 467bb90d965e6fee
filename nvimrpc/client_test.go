// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	qt "github.com/frankban/quicktest"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

var ctx = context.Background()

func TestOpenHandshake(t *testing.T) {
	c := qt.New(t)
	info := nvimtest.Info{
		ChannelID: 3,
		APILevel:  8,
		Functions: []nvimtest.Function{
			{Name: "nvim_command", Params: [][2]string{{"String", "command"}}, ReturnType: "void"},
		},
	}
	s := openSession(c, info, nvimrpc.Options{})
	c.Assert(s.client.ChannelID(), qt.Equals, int64(3))
	c.Assert(s.client.ApiInfo().APILevel(), qt.Equals, int64(8))
	c.Assert(s.client.Catalog(), qt.Equals, testAPI)

	_, err := nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("echo 'hi'"))
	c.Assert(err, qt.IsNil)
	c.Assert(s.editor.Commands(), qt.DeepEquals, []string{"echo 'hi'"})

	_, err = nvimrpc.Call(ctx, s.client, nvimNonexistent, nvimrpc.T0())
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrNotFindApi)
	c.Assert(methods(s.peer), qt.DeepEquals, []string{"nvim_command"})
}

func TestCallTypedResults(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})
	cl := s.client

	buf, err := nvimrpc.Call(ctx, cl, nvimCurrentBuf, nvimrpc.T0())
	c.Assert(err, qt.IsNil)
	c.Assert(buf, qt.Equals, nvimrpc.Buffer(1))

	_, err = nvimrpc.Call(ctx, cl, nvimBufSetName, nvimrpc.T2(buf, "notes.txt"))
	c.Assert(err, qt.IsNil)
	name, err := nvimrpc.Call(ctx, cl, nvimBufGetName, nvimrpc.T1(buf))
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "notes.txt")

	_, err = nvimrpc.Call(ctx, cl, nvimBufSetLines, nvimrpc.T5(buf, int64(0), int64(-1), true, []string{"one", "two", "three"}))
	c.Assert(err, qt.IsNil)
	lines, err := nvimrpc.Call(ctx, cl, nvimBufGetLines, nvimrpc.T4(buf, int64(1), int64(-1), false))
	c.Assert(err, qt.IsNil)
	c.Assert(lines, qt.DeepEquals, []string{"two", "three"})
	c.Assert(s.editor.Lines(buf), qt.DeepEquals, []string{"one", "two", "three"})

	bufs, err := nvimrpc.Call(ctx, cl, nvimListBufs, nvimrpc.T0())
	c.Assert(err, qt.IsNil)
	c.Assert(bufs, qt.DeepEquals, []nvimrpc.Buffer{1})

	win, err := nvimrpc.Call(ctx, cl, nvimCurrentWin, nvimrpc.T0())
	c.Assert(err, qt.IsNil)
	c.Assert(win, qt.Equals, nvimrpc.Window(1000))

	mode, err := nvimrpc.Call(ctx, cl, nvimGetMode, nvimrpc.T0())
	c.Assert(err, qt.IsNil)
	c.Assert(mode, qt.DeepEquals, map[string]any{"mode": "n", "blocking": false})

	_, err = nvimrpc.Call(ctx, cl, nvimSetVar, nvimrpc.T2[string, any]("answer", int64(42)))
	c.Assert(err, qt.IsNil)
	v, err := nvimrpc.Call(ctx, cl, nvimGetVar, nvimrpc.T1("answer"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, any(int64(42)))
}

func TestCallWithReaderForRawMethod(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})

	rd, err := nvimrpc.CallWithReader(ctx, s.client, nvimEval, nvimrpc.T1("1 + 2"))
	c.Assert(err, qt.IsNil)
	var n int64
	c.Assert(rd.Decode(&n), qt.IsNil)
	c.Assert(n, qt.Equals, int64(3))
	c.Assert(rd.Bytes(), qt.DeepEquals, []byte{0x03})

	// Auto-callable methods are accepted too.
	rd, err = nvimrpc.CallWithReader(ctx, s.client, nvimBufGetName, nvimrpc.T1(nvimrpc.Buffer(0)))
	c.Assert(err, qt.IsNil)
	var name string
	c.Assert(rd.Decode(&name), qt.IsNil)
	c.Assert(name, qt.Equals, "")
}

func TestCallWithWriter(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})

	w, err := nvimrpc.CallWithWriter(ctx, s.client, nvimCommand)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Method(), qt.Equals, "nvim_command")
	c.Assert(w.Encode([]any{"let g:x = 7"}), qt.IsNil)
	_, err = nvimrpc.GetResultWithWriter[nvimrpc.Void](ctx, s.client, w)
	c.Assert(err, qt.IsNil)
	c.Assert(s.editor.Commands(), qt.DeepEquals, []string{"let g:x = 7"})

	w, err = nvimrpc.CallWithWriter(ctx, s.client, nvimEval)
	c.Assert(err, qt.IsNil)
	_, err = w.Write([]byte{0x91, 0xa3, 'g', ':', 'x'}) // ["g:x"]
	c.Assert(err, qt.IsNil)
	rd, err := nvimrpc.GetReaderWithWriter(ctx, s.client, w)
	c.Assert(err, qt.IsNil)
	var x int64
	c.Assert(rd.Decode(&x), qt.IsNil)
	c.Assert(x, qt.Equals, int64(7))

	w, err = nvimrpc.CallWithWriter(ctx, s.client, nvimEval)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Encode([]any{"g:x"}), qt.IsNil)
	got, err := nvimrpc.GetResultWithWriter[int64](ctx, s.client, w)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(7))

	_, err = nvimrpc.GetResultWithWriter[int64](ctx, s.client, w)
	c.Assert(err, qt.ErrorIs, msgrpc.ErrWriterDone)

	_, err = nvimrpc.CallWithWriter(ctx, s.client, nvimNonexistent)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrNotFindApi)
}

func TestDeprecatedMethod(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})
	_, err := nvimrpc.Call(ctx, s.client, nvimBufGetNum, nvimrpc.T1(nvimrpc.Buffer(1)))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrAPIDeprecated)
	_, err = nvimrpc.CallWithReader(ctx, s.client, nvimBufGetNum, nvimrpc.T1(nvimrpc.Buffer(1)))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrAPIDeprecated)
	_, err = nvimrpc.CallWithWriter(ctx, s.client, nvimBufGetNum)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrAPIDeprecated)
	c.Assert(methods(s.peer), qt.HasLen, 0)
}

func TestSkipValidation(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{SkipValidation: true})

	n, err := nvimrpc.Call(ctx, s.client, nvimBufGetNum, nvimrpc.T1(nvimrpc.Buffer(1)))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(1))

	// The peer rejects what validation would have caught.
	_, err = nvimrpc.Call(ctx, s.client, nvimNonexistent, nvimrpc.T0())
	var rerr *nvimrpc.RpcError
	c.Assert(err, qt.ErrorAs, &rerr)
	c.Assert(rerr.Type, qt.Equals, nvimrpc.ErrorTypeException)
	c.Assert(rerr.Message, qt.Equals, "Invalid method: nvim_nonexistent")
}

func TestRpcError(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})

	_, err := nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("bogus"))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrRpc)
	c.Assert(err, qt.Not(qt.ErrorIs), nvimrpc.ErrUnknownErrorKind)
	c.Assert(err, qt.ErrorMatches, `nvim_command: Exception: Vim:E492: Not an editor command: bogus`)

	_, err = nvimrpc.Call(ctx, s.client, nvimGetVar, nvimrpc.T1("missing"))
	var rerr *nvimrpc.RpcError
	c.Assert(err, qt.ErrorAs, &rerr)
	c.Assert(rerr.Kind, qt.Equals, int64(1))
	c.Assert(rerr.Type, qt.Equals, nvimrpc.ErrorTypeValidation)
	c.Assert(rerr.Method, qt.Equals, "nvim_get_var")
}

func TestRpcErrorUnknownKind(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})
	s.peer.Handle("nvim_command", func(context.Context, *nvimtest.Peer, []any) (any, error) {
		return nil, &nvimtest.Error{Kind: 7, Message: "from the future"}
	})
	_, err := nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("x"))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrUnknownErrorKind)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrRpc)
	c.Assert(err, qt.ErrorMatches, `nvim_command: error kind 7: from the future`)
}

func TestOpenFailsWhenHandshakeFails(t *testing.T) {
	c := qt.New(t)
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(c, 0)

	peer := nvimtest.NewPeer(nvimtest.DefaultInfo())
	peer.Handle(nvimrpc.HandshakeMethod, func(context.Context, *nvimtest.Peer, []any) (any, error) {
		return nil, nvimtest.Exception("not ready")
	})
	conn, wait := peer.Start(ctx)
	client, err := nvimrpc.Open[editor](ctx, testAPI, conn, conn, nvimrpc.Options{Allocator: mem})
	c.Assert(client, qt.IsNil)
	var cerr *nvimrpc.ConnectionError
	c.Assert(err, qt.ErrorAs, &cerr)
	c.Assert(cerr.Op, qt.Equals, "handshake")
	c.Assert(wait(), qt.IsNil)

	peer = nvimtest.NewPeer(nvimtest.DefaultInfo())
	peer.Handle(nvimrpc.HandshakeMethod, func(context.Context, *nvimtest.Peer, []any) (any, error) {
		return []any{int64(1)}, nil
	})
	conn, wait = peer.Start(ctx)
	_, err = nvimrpc.Open[editor](ctx, testAPI, conn, conn, nvimrpc.Options{Allocator: mem})
	c.Assert(err, qt.ErrorMatches, `msgrpc: handshake: nvim_get_api_info returned 1 values, want 2`)
	c.Assert(wait(), qt.IsNil)
}

func TestOpenFailsWhenPeerHangsUp(t *testing.T) {
	c := qt.New(t)
	near, far := net.Pipe()
	far.Close()
	_, err := nvimrpc.Open[editor](ctx, testAPI, near, near, nvimrpc.Options{})
	var cerr *nvimrpc.ConnectionError
	c.Assert(err, qt.ErrorAs, &cerr)
	c.Assert(cerr.Op, qt.Equals, "write")
}

func TestCloseReleasesMetadata(t *testing.T) {
	c := qt.New(t)
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{Allocator: mem})
	c.Assert(mem.CurrentAlloc() > 0, qt.IsTrue)

	_, err := nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("echo"))
	c.Assert(err, qt.IsNil)

	s.close(c)
	mem.AssertSize(c, 0)

	_, err = nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("echo"))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrClosed)
}

func TestForeignMethod(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})
	other := nvimrpc.NewCatalog("other")
	cmd := nvimrpc.Define[nvimrpc.Tuple1[string], nvimrpc.Void](other, "nvim_command")
	_, err := nvimrpc.Call(ctx, s.client, cmd, nvimrpc.T1("echo"))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrForeignMethod)
}

func TestMaxMessageSize(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{MaxMessageSize: 16})

	w, err := nvimrpc.CallWithWriter(ctx, s.client, nvimCommand)
	c.Assert(err, qt.IsNil)
	err = w.Encode([]any{"echo 'a command longer than sixteen bytes'"})
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrMessageTooLarge)

	long := nvimrpc.T5(nvimrpc.Buffer(0), int64(0), int64(-1), false, []string{"0123456789", "0123456789"})
	_, err = nvimrpc.Call(ctx, s.client, nvimBufSetLines, long)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrMessageTooLarge)
	err = nvimrpc.Notify(ctx, s.client, nvimBufSetLines, long)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrMessageTooLarge)
	c.Assert(methods(s.peer), qt.HasLen, 0)

	// Small params, an 18 byte reply.
	_, err = nvimrpc.Call(ctx, s.client, nvimGetMode, nvimrpc.T0())
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrMessageTooLarge)

	_, err = nvimrpc.Call(ctx, s.client, nvimCommand, nvimrpc.T1("echo"))
	c.Assert(err, qt.IsNil)
}

func TestNotify(t *testing.T) {
	c := qt.New(t)
	s := openSession(c, nvimtest.DefaultInfo(), nvimrpc.Options{})
	c.Assert(nvimrpc.Notify(ctx, s.client, nvimCommand, nvimrpc.T1("echo 'async'")), qt.IsNil)
	// A following call is answered after the notification was served.
	_, err := nvimrpc.Call(ctx, s.client, nvimGetMode, nvimrpc.T0())
	c.Assert(err, qt.IsNil)
	got := s.peer.Received()
	c.Assert(got, qt.HasLen, 2)
	c.Assert(got[0], qt.DeepEquals, nvimtest.Message{Notification: true, Method: "nvim_command", Args: []any{"echo 'async'"}})
	c.Assert(got[1].Notification, qt.IsFalse)
	c.Assert(got[1].Method, qt.Equals, "nvim_get_mode")
	c.Assert(nvimrpc.Notify(ctx, s.client, nvimNonexistent, nvimrpc.T0()), qt.ErrorIs, nvimrpc.ErrNotFindApi)
}

func TestCallDynamic(t *testing.T) {
	c := qt.New(t)
	info := nvimtest.DefaultInfo()
	ai := decodeInfo(c, nil, info)
	cat, err := nvimrpc.CompileCatalog("dynamic", nvimrpc.SpecsFromApiInfo(ai))
	ai.Release()
	c.Assert(err, qt.IsNil)

	peer := nvimtest.NewPeer(info)
	nvimtest.RegisterEditor(peer, nvimtest.NewEditor())
	conn, wait := peer.Start(ctx)
	client, err := nvimrpc.Open[editor](ctx, cat, conn, conn, nvimrpc.Options{})
	c.Assert(err, qt.IsNil)
	defer func() {
		c.Check(client.Close(), qt.IsNil)
		c.Check(wait(), qt.IsNil)
	}()

	count, _ := cat.Lookup("nvim_buf_line_count")
	got, err := nvimrpc.CallDynamic(ctx, client, count, nvimrpc.Buffer(0))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, any(int64(1)))

	cur, _ := cat.Lookup("nvim_get_current_buf")
	got, err = nvimrpc.CallDynamic(ctx, client, cur)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, any(nvimrpc.Buffer(1)))

	_, err = nvimrpc.CallDynamic(ctx, client, count)
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrArity)
	c.Assert(err, qt.ErrorMatches, `nvimrpc: wrong number of arguments: nvim_buf_line_count: want 1, got 0`)

	eval, _ := cat.Lookup("nvim_eval")
	_, err = nvimrpc.CallDynamic(ctx, client, eval, "1 + 2")
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrNotAutoCallable)

	deprecated, _ := cat.Lookup("nvim_buf_get_number")
	_, err = nvimrpc.CallDynamic(ctx, client, deprecated, nvimrpc.Buffer(1))
	c.Assert(err, qt.ErrorIs, nvimrpc.ErrAPIDeprecated)

	_, err = nvimrpc.CallDynamic(ctx, client, 1000)
	c.Assert(err, qt.ErrorMatches, `nvimrpc: catalog "dynamic" has no method id 1000`)
}
