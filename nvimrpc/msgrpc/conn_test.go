// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package msgrpc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedPeer plays the remote side of a connection from a goroutine.
type scriptedPeer struct {
	conn net.Conn
	dec  *codec.Decoder
	h    *codec.MsgpackHandle
}

func (p *scriptedPeer) read() ([]any, error) {
	var v []any
	if err := p.dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *scriptedPeer) write(v any) error {
	b, err := Marshal(p.h, v)
	if err != nil {
		return err
	}
	_, err = p.conn.Write(b)
	return err
}

// readRequest reads one frame and checks it is a request for method.
func (p *scriptedPeer) readRequest(method string) (id int64, params []any, err error) {
	frame, err := p.read()
	if err != nil {
		return 0, nil, err
	}
	if len(frame) != 4 {
		return 0, nil, fmt.Errorf("frame %v is not a request", frame)
	}
	if kind, _ := toInt64(frame[0]); kind != TypeRequest {
		return 0, nil, fmt.Errorf("frame type %v, want request", frame[0])
	}
	if frame[2] != method {
		return 0, nil, fmt.Errorf("method %v, want %s", frame[2], method)
	}
	id, _ = toInt64(frame[1])
	params, _ = frame[3].([]any)
	return id, params, nil
}

// startPeer runs script against the far end of a pipe and returns the near
// end plus a function that waits for the script to finish.
func startPeer(c *qt.C, script func(p *scriptedPeer) error) (net.Conn, func() error) {
	near, far := net.Pipe()
	h := NewHandle()
	p := &scriptedPeer{conn: far, dec: codec.NewDecoder(bufio.NewReader(far), h), h: h}
	errc := make(chan error, 1)
	go func() {
		defer far.Close()
		errc <- script(p)
	}()
	c.Cleanup(func() { near.Close() })
	return near, func() error { return <-errc }
}

func TestCallRoundTrip(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, params, err := p.readRequest("nvim_eval")
		if err != nil {
			return err
		}
		if len(params) != 1 || params[0] != "1 + 2" {
			return fmt.Errorf("unexpected params %v", params)
		}
		return p.write([]any{TypeResponse, id, nil, 3})
	})
	rc := NewConn(conn, conn, Options{})
	var got int64
	err := rc.Call(context.Background(), "nvim_eval", []any{"1 + 2"}, &got)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int64(3))
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestCallResponseError(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, _, err := p.readRequest("nvim_command")
		if err != nil {
			return err
		}
		return p.write([]any{TypeResponse, id, []any{0, "Vim:E492: Not an editor command"}, nil})
	})
	rc := NewConn(conn, conn, Options{})
	err := rc.Call(context.Background(), "nvim_command", []any{"bogus"}, nil)
	var rerr *ResponseError
	c.Assert(errors.As(err, &rerr), qt.IsTrue)
	code, msg, ok := rerr.Parts()
	c.Assert(ok, qt.IsTrue)
	c.Assert(code, qt.Equals, int64(0))
	c.Assert(msg, qt.Equals, "Vim:E492: Not an editor command")
	c.Assert(rerr.Method, qt.Equals, "nvim_command")
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

type recordingHandler struct {
	notifications []string
	requests      []string
}

func (h *recordingHandler) ServeRequest(_ context.Context, method string, params *Reader) (any, error) {
	h.requests = append(h.requests, method)
	var args []string
	if err := params.Decode(&args); err != nil {
		return nil, err
	}
	if method == "fail" {
		return nil, fmt.Errorf("refused")
	}
	return "hello " + args[0], nil
}

func (h *recordingHandler) ServeNotification(_ context.Context, method string, _ *Reader) {
	h.notifications = append(h.notifications, method)
}

func TestPeerTrafficDuringCall(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, _, err := p.readRequest("nvim_get_mode")
		if err != nil {
			return err
		}
		if err := p.write([]any{TypeNotification, "redraw", []any{}}); err != nil {
			return err
		}
		if err := p.write([]any{TypeRequest, 99, "greet", []any{"peer"}}); err != nil {
			return err
		}
		reply, err := p.read()
		if err != nil {
			return err
		}
		if id, _ := toInt64(reply[1]); id != 99 || reply[2] != nil || reply[3] != "hello peer" {
			return fmt.Errorf("unexpected reply %v", reply)
		}
		if err := p.write([]any{TypeRequest, 100, "fail", []any{"x"}}); err != nil {
			return err
		}
		reply, err = p.read()
		if err != nil {
			return err
		}
		if errObj, _ := reply[2].([]any); len(errObj) != 2 || errObj[1] != "refused" {
			return fmt.Errorf("unexpected error reply %v", reply)
		}
		return p.write([]any{TypeResponse, id, nil, map[string]any{"mode": "n", "blocking": false}})
	})
	h := &recordingHandler{}
	rc := NewConn(conn, conn, Options{Handler: h, EnableLogging: true})
	var mode map[string]any
	c.Assert(rc.Call(context.Background(), "nvim_get_mode", nil, &mode), qt.IsNil)
	c.Assert(mode["mode"], qt.Equals, "n")
	c.Assert(h.notifications, qt.DeepEquals, []string{"redraw"})
	c.Assert(h.requests, qt.DeepEquals, []string{"greet", "fail"})
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestUnhandledRequestIsAnswered(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		if err := p.write([]any{TypeRequest, 7, "unknown", []any{}}); err != nil {
			return err
		}
		reply, err := p.read()
		if err != nil {
			return err
		}
		errObj, _ := reply[2].([]any)
		if len(errObj) != 2 || errObj[1] != "no handler for method 'unknown'" {
			return fmt.Errorf("unexpected reply %v", reply)
		}
		return nil
	})
	rc := NewConn(conn, conn, Options{})
	c.Assert(rc.Loop(context.Background()), qt.IsNil)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestCallWithWriter(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, params, err := p.readRequest("nvim_command")
		if err != nil {
			return err
		}
		if len(params) != 1 || params[0] != "echo 'hi'" {
			return fmt.Errorf("unexpected params %v", params)
		}
		return p.write([]any{TypeResponse, id, nil, nil})
	})
	rc := NewConn(conn, conn, Options{})
	w, err := rc.CallWithWriter(context.Background(), "nvim_command")
	c.Assert(err, qt.IsNil)
	c.Assert(w.Method(), qt.Equals, "nvim_command")
	c.Assert(w.Encode([]any{"echo 'hi'"}), qt.IsNil)
	c.Assert(rc.GetResultWithWriter(context.Background(), w, nil), qt.IsNil)
	err = rc.GetResultWithWriter(context.Background(), w, nil)
	c.Assert(errors.Is(err, ErrWriterDone), qt.IsTrue)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestGetReaderWithWriter(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, params, err := p.readRequest("nvim_list_bufs")
		if err != nil {
			return err
		}
		if len(params) != 0 {
			return fmt.Errorf("unexpected params %v", params)
		}
		return p.write([]any{TypeResponse, id, nil, []any{"a", "b"}})
	})
	rc := NewConn(conn, conn, Options{})
	w, err := rc.CallWithWriter(context.Background(), "nvim_list_bufs")
	c.Assert(err, qt.IsNil)
	r, err := rc.GetReaderWithWriter(context.Background(), w)
	c.Assert(err, qt.IsNil)
	var got []string
	c.Assert(r.Decode(&got), qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a", "b"})
	c.Assert(r.Len(), qt.Equals, len(r.Bytes()))
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestWriterLimit(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error { return nil })
	rc := NewConn(conn, conn, Options{MaxMessageSize: 8})
	w, err := rc.CallWithWriter(context.Background(), "nvim_command")
	c.Assert(err, qt.IsNil)
	err = w.Encode([]any{"a string well past eight bytes"})
	c.Assert(errors.Is(err, ErrMessageTooLarge), qt.IsTrue)
	c.Assert(w.Len(), qt.Equals, 0)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestReplyLimit(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		id, _, err := p.readRequest("nvim_buf_get_lines")
		if err != nil {
			return err
		}
		return p.write([]any{TypeResponse, id, nil, []any{"0123456789", "0123456789"}})
	})
	rc := NewConn(conn, conn, Options{MaxMessageSize: 16})
	_, err := rc.CallWithReader(context.Background(), "nvim_buf_get_lines", []any{})
	c.Assert(errors.Is(err, ErrMessageTooLarge), qt.IsTrue)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestPeerHangupIsConnectionError(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		_, _, err := p.readRequest("nvim_command")
		return err
	})
	rc := NewConn(conn, conn, Options{})
	err := rc.Call(context.Background(), "nvim_command", []any{"q"}, nil)
	var cerr *ConnectionError
	c.Assert(errors.As(err, &cerr), qt.IsTrue)
	c.Assert(cerr.Op, qt.Equals, "read")
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestClosedConn(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error { return nil })
	rc := NewConn(conn, conn, Options{})
	c.Assert(rc.Close(), qt.IsNil)
	err := rc.Call(context.Background(), "nvim_command", []any{"q"}, nil)
	c.Assert(errors.Is(err, ErrClosed), qt.IsTrue)
	c.Assert(rc.Loop(context.Background()), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestNotify(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		frame, err := p.read()
		if err != nil {
			return err
		}
		if kind, _ := toInt64(frame[0]); kind != TypeNotification || frame[1] != "nvim_input" {
			return fmt.Errorf("unexpected frame %v", frame)
		}
		return nil
	})
	rc := NewConn(conn, conn, Options{})
	c.Assert(rc.Notify(context.Background(), "nvim_input", []any{"<Esc>"}), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
	c.Assert(rc.Close(), qt.IsNil)
}

// callingHandler makes a call of its own whenever a notification arrives.
type callingHandler struct {
	conn *Conn
	mode map[string]any
	err  error
}

func (h *callingHandler) ServeRequest(_ context.Context, method string, _ *Reader) (any, error) {
	return nil, fmt.Errorf("unexpected request %s", method)
}

func (h *callingHandler) ServeNotification(ctx context.Context, _ string, _ *Reader) {
	h.err = h.conn.Call(ctx, "nvim_get_mode", nil, &h.mode)
}

func TestNestedCallKeepsOuterReply(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		outer, _, err := p.readRequest("nvim_command")
		if err != nil {
			return err
		}
		if err := p.write([]any{TypeNotification, "ping", []any{}}); err != nil {
			return err
		}
		inner, _, err := p.readRequest("nvim_get_mode")
		if err != nil {
			return err
		}
		if err := p.write([]any{TypeResponse, 999, nil, "stale"}); err != nil {
			return err
		}
		if err := p.write([]any{TypeResponse, outer, nil, "done"}); err != nil {
			return err
		}
		return p.write([]any{TypeResponse, inner, nil, map[string]any{"mode": "n", "blocking": false}})
	})
	h := &callingHandler{}
	rc := NewConn(conn, conn, Options{Handler: h})
	h.conn = rc
	var got string
	c.Assert(rc.Call(context.Background(), "nvim_command", []any{"echo"}, &got), qt.IsNil)
	c.Assert(got, qt.Equals, "done")
	c.Assert(h.err, qt.IsNil)
	c.Assert(h.mode["mode"], qt.Equals, "n")
	c.Assert(rc.waiting, qt.HasLen, 0)
	c.Assert(rc.replies, qt.HasLen, 0)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestParamsLimit(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error { return nil })
	rc := NewConn(conn, conn, Options{MaxMessageSize: 8})
	err := rc.Call(context.Background(), "nvim_command", []any{"a string well past eight bytes"}, nil)
	c.Assert(errors.Is(err, ErrMessageTooLarge), qt.IsTrue)
	err = rc.Notify(context.Background(), "nvim_command", []any{"a string well past eight bytes"})
	c.Assert(errors.Is(err, ErrMessageTooLarge), qt.IsTrue)
	sent, _ := rc.Stats()
	c.Assert(sent, qt.Equals, int64(0))
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestTruncatedFrameIsConnectionError(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error {
		b, err := Marshal(p.h, []any{TypeNotification, "redraw", []any{"a payload that gets cut"}})
		if err != nil {
			return err
		}
		_, err = p.conn.Write(b[:len(b)-4])
		return err
	})
	rc := NewConn(conn, conn, Options{})
	err := rc.Loop(context.Background())
	var cerr *ConnectionError
	c.Assert(errors.As(err, &cerr), qt.IsTrue)
	c.Assert(cerr.Op, qt.Equals, "read")
	c.Assert(errors.Is(err, io.ErrUnexpectedEOF), qt.IsTrue)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}

func TestPeerCloseEndsLoop(t *testing.T) {
	c := qt.New(t)
	conn, wait := startPeer(c, func(p *scriptedPeer) error { return nil })
	rc := NewConn(conn, conn, Options{})
	c.Assert(rc.Loop(context.Background()), qt.IsNil)
	c.Assert(rc.Close(), qt.IsNil)
	c.Assert(wait(), qt.IsNil)
}
