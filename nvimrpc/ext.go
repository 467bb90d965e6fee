// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"fmt"
	"reflect"

	"github.com/ugorji/go/codec"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// Buffer is a remote buffer handle.
type Buffer int64

// Window is a remote window handle.
type Window int64

// Tabpage is a remote tabpage handle.
type Tabpage int64

// msgpack ext type ids Neovim assigns to remote handles.
const (
	ExtBuffer  = 0
	ExtWindow  = 1
	ExtTabpage = 2
)

func (b Buffer) String() string  { return fmt.Sprintf("Buffer(%d)", int64(b)) }
func (w Window) String() string  { return fmt.Sprintf("Window(%d)", int64(w)) }
func (t Tabpage) String() string { return fmt.Sprintf("Tabpage(%d)", int64(t)) }

// plainHandle encodes the integer inside an ext payload.
var plainHandle = msgrpc.NewHandle()

// handleExt carries a handle as a msgpack integer inside an ext payload.
type handleExt struct{}

func (handleExt) WriteExt(v any) []byte {
	var n int64
	switch h := v.(type) {
	case Buffer:
		n = int64(h)
	case *Buffer:
		n = int64(*h)
	case Window:
		n = int64(h)
	case *Window:
		n = int64(*h)
	case Tabpage:
		n = int64(h)
	case *Tabpage:
		n = int64(*h)
	default:
		panic(fmt.Sprintf("nvimrpc: unexpected handle type %T", v))
	}
	b, err := msgrpc.Marshal(plainHandle, n)
	if err != nil {
		panic(err)
	}
	return b
}

func (handleExt) ReadExt(dst any, src []byte) {
	var n int64
	if err := msgrpc.Unmarshal(plainHandle, src, &n); err != nil {
		panic(err)
	}
	switch d := dst.(type) {
	case *Buffer:
		*d = Buffer(n)
	case *Window:
		*d = Window(n)
	case *Tabpage:
		*d = Tabpage(n)
	default:
		panic(fmt.Sprintf("nvimrpc: unexpected handle type %T", dst))
	}
}

// NewHandle returns the msgpack handle used by clients: msgrpc.NewHandle
// with Buffer, Window and Tabpage registered as ext types.
func NewHandle() *codec.MsgpackHandle {
	h := msgrpc.NewHandle()
	for _, e := range []struct {
		t   reflect.Type
		tag uint64
	}{
		{reflect.TypeFor[Buffer](), ExtBuffer},
		{reflect.TypeFor[Window](), ExtWindow},
		{reflect.TypeFor[Tabpage](), ExtTabpage},
	} {
		if err := h.SetBytesExt(e.t, e.tag, handleExt{}); err != nil {
			panic(fmt.Sprintf("nvimrpc: registering %v ext: %v", e.t, err))
		}
	}
	return h
}
