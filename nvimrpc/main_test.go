// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.uber.org/goleak"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// editor is the role tag of the test clients.
type editor struct{}

type (
	t0 = nvimrpc.Tuple0
	b  = nvimrpc.Buffer
)

var (
	testAPI = nvimrpc.NewCatalog("test")

	nvimCommand     = nvimrpc.Define[nvimrpc.Tuple1[string], nvimrpc.Void](testAPI, "nvim_command")
	nvimEval        = nvimrpc.DefineRaw[nvimrpc.Tuple1[string]](testAPI, "nvim_eval")
	nvimGetMode     = nvimrpc.Define[t0, map[string]any](testAPI, "nvim_get_mode")
	nvimSetVar      = nvimrpc.Define[nvimrpc.Tuple2[string, any], nvimrpc.Void](testAPI, "nvim_set_var")
	nvimGetVar      = nvimrpc.Define[nvimrpc.Tuple1[string], any](testAPI, "nvim_get_var")
	nvimCurrentBuf  = nvimrpc.Define[t0, b](testAPI, "nvim_get_current_buf")
	nvimListBufs    = nvimrpc.Define[t0, []b](testAPI, "nvim_list_bufs")
	nvimCurrentWin  = nvimrpc.Define[t0, nvimrpc.Window](testAPI, "nvim_get_current_win")
	nvimBufGetName  = nvimrpc.Define[nvimrpc.Tuple1[b], string](testAPI, "nvim_buf_get_name")
	nvimBufSetName  = nvimrpc.Define[nvimrpc.Tuple2[b, string], nvimrpc.Void](testAPI, "nvim_buf_set_name")
	nvimBufGetLines = nvimrpc.Define[nvimrpc.Tuple4[b, int64, int64, bool], []string](testAPI, "nvim_buf_get_lines")
	nvimBufSetLines = nvimrpc.Define[nvimrpc.Tuple5[b, int64, int64, bool, []string], nvimrpc.Void](testAPI, "nvim_buf_set_lines")
	nvimBufGetNum   = nvimrpc.Define[nvimrpc.Tuple1[b], int64](testAPI, "nvim_buf_get_number")
	nvimNonexistent = nvimrpc.Define[t0, nvimrpc.Void](testAPI, "nvim_nonexistent")
	startTicks      = nvimrpc.DefineRaw[t0](testAPI, "start_ticks")
)

// session is a client connected to a fake peer.
type session struct {
	client *nvimrpc.Client[editor]
	peer   *nvimtest.Peer
	editor *nvimtest.Editor
	wait   func() error
	done   bool
}

// close closes the client and waits for the peer to finish.
func (s *session) close(c *qt.C) {
	if s.done {
		return
	}
	s.done = true
	c.Check(s.client.Close(), qt.IsNil)
	c.Check(s.wait(), qt.IsNil)
}

// openSession starts a fake peer publishing info and opens a client to it.
// The session is closed when the test ends.
func openSession(c *qt.C, info nvimtest.Info, opts nvimrpc.Options) *session {
	c.Helper()
	peer := nvimtest.NewPeer(info)
	ed := nvimtest.NewEditor()
	nvimtest.RegisterEditor(peer, ed)
	conn, wait := peer.Start(context.Background())
	client, err := nvimrpc.Open[editor](context.Background(), testAPI, conn, conn, opts)
	if err != nil {
		conn.Close()
		wait()
		c.Fatalf("open: %v", err)
	}
	s := &session{client: client, peer: peer, editor: ed, wait: wait}
	c.Cleanup(func() { s.close(c) })
	return s
}

// methods returns the names of the messages the peer received.
func methods(p *nvimtest.Peer) []string {
	var names []string
	for _, m := range p.Received() {
		names = append(names, m.Method)
	}
	return names
}
