// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

func TestCheck(t *testing.T) {
	c := qt.New(t)
	ai := decodeInfo(c, nil, nvimtest.DefaultInfo())
	defer ai.Release()

	rep := nvimrpc.Check(testAPI, ai)
	c.Assert(rep.OK(), qt.IsFalse)
	c.Assert(rep.Checked, qt.Equals, testAPI.Len())
	c.Assert(rep.Missing, qt.DeepEquals, []string{"nvim_nonexistent", "start_ticks"})
	c.Assert(rep.Deprecated, qt.DeepEquals, []nvimrpc.DeprecatedMethod{
		{Name: "nvim_buf_get_number", DeprecatedSince: 2, APILevel: 12},
	})
	c.Assert(rep.PeerOnly, qt.DeepEquals, []string{
		"buffer_get_line",
		"nvim_buf_line_count",
		"nvim_create_buf",
		"nvim_del_var",
		"nvim_get_api_info",
		"nvim_get_current_tabpage",
		"nvim_subscribe",
		"nvim_win_get_buf",
	})

	var out strings.Builder
	_, err := rep.WriteTo(&out)
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Matches, `(?s)catalog test against nvim v0\.10\.0 \(api level 12\): 15 methods checked\n.*missing     nvim_nonexistent\n.*deprecated  nvim_buf_get_number \(since 2\)\n8 peer functions not in catalog\n`)
}

func TestCheckClean(t *testing.T) {
	c := qt.New(t)
	ai := decodeInfo(c, nil, nvimtest.DefaultInfo())
	defer ai.Release()
	cat := nvimrpc.NewCatalog("clean")
	nvimrpc.Define[nvimrpc.Tuple1[string], nvimrpc.Void](cat, "nvim_command")
	nvimrpc.Define[nvimrpc.Tuple0, nvimrpc.Buffer](cat, "nvim_get_current_buf")
	rep := nvimrpc.Check(cat, ai)
	c.Assert(rep.OK(), qt.IsTrue)
	c.Assert(rep.Checked, qt.Equals, 2)
}
