// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package msgrpc is a sequential msgpack-rpc endpoint. It correlates
// requests with their responses over one byte-stream connection and hands
// peer-initiated requests and notifications to a Handler.
//
// A Conn starts no goroutines and holds no locks. A call writes its request
// and then reads frames until its own response arrives; anything else read
// in the meantime is dispatched inline. Callers that run Loop and issue
// calls from different goroutines must serialize access themselves. The
// only way to abort a blocked call is to close the transport.
package msgrpc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
)

// Options configures a Conn. The zero value is usable.
type Options struct {
	// Handle is the msgpack handle used for every encode and decode.
	// Defaults to NewHandle().
	Handle *codec.MsgpackHandle
	// Handler receives peer-initiated requests and notifications.
	Handler Handler
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// EnableLogging logs every frame sent and received at debug level.
	EnableLogging bool
	// MaxMessageSize bounds the encoded parameters of outgoing requests and
	// notifications and the payload of incoming replies, in bytes. Zero
	// means unbounded.
	MaxMessageSize int
}

// Conn is one msgpack-rpc connection.
type Conn struct {
	w       io.Writer
	r       io.Reader
	dec     *codec.Decoder
	h       *codec.MsgpackHandle
	handler Handler
	logger  *slog.Logger
	logging bool
	limit   int
	nextID  uint32
	closed  bool

	// waiting holds the ids of requests on the wire whose await has not
	// returned. replies keeps responses read by a nested await on behalf
	// of an outer one.
	waiting map[uint32]bool
	replies map[uint32]*message

	sent     int64
	received int64
}

// NewConn wraps a writer/reader pair. They may be the same object.
func NewConn(w io.Writer, r io.Reader, opts Options) *Conn {
	if opts.Handle == nil {
		opts.Handle = NewHandle()
	}
	if opts.Handler == nil {
		opts.Handler = noHandler{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Conn{
		w:       w,
		r:       r,
		dec:     codec.NewDecoder(bufio.NewReader(r), opts.Handle),
		h:       opts.Handle,
		handler: opts.Handler,
		logger:  opts.Logger,
		logging: opts.EnableLogging,
		limit:   opts.MaxMessageSize,
		waiting: make(map[uint32]bool),
		replies: make(map[uint32]*message),
	}
}

// Handle returns the msgpack handle used by the connection.
func (c *Conn) Handle() *codec.MsgpackHandle {
	return c.h
}

// SetMaxMessageSize changes the payload bound for subsequent calls and
// writers.
func (c *Conn) SetMaxMessageSize(n int) {
	c.limit = n
}

// Stats returns the number of frame bytes written and of payload bytes
// read since the connection was created.
func (c *Conn) Stats() (sent, received int64) {
	return c.sent, c.received
}

// Call sends method with params and decodes the result into result. A nil
// result discards the reply payload.
func (c *Conn) Call(ctx context.Context, method string, params any, result any) error {
	raw, err := c.roundTrip(ctx, method, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := Unmarshal(c.h, raw, result); err != nil {
		return errors.Annotatef(err, "decoding %s result", method)
	}
	return nil
}

// Notify sends a notification. No reply is expected.
func (c *Conn) Notify(ctx context.Context, method string, params any) error {
	if err := c.ready(ctx); err != nil {
		return err
	}
	raw, err := c.encodeParams(method, params)
	if err != nil {
		return err
	}
	return c.send([]any{TypeNotification, method, raw}, method)
}

// Loop serves peer-initiated traffic until the peer closes the connection,
// which returns nil, or a transport error occurs.
func (c *Conn) Loop(ctx context.Context) error {
	for {
		if err := c.ready(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
		msg, err := c.readMessage()
		if err != nil {
			if isTransportClosed(err) {
				return nil
			}
			return err
		}
		if msg.kind == TypeResponse {
			c.logger.Warn("msgrpc: response without pending call", "id", msg.id)
			continue
		}
		if err := c.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

// Close closes the writer and the reader when they implement io.Closer.
// Subsequent operations fail with ErrClosed.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	var first error
	if wc, ok := c.w.(io.Closer); ok {
		first = wc.Close()
	}
	if rc, ok := c.r.(io.Closer); ok && any(c.r) != any(c.w) {
		if err := rc.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *Conn) ready(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (c *Conn) allocID() uint32 {
	c.nextID++
	return c.nextID
}

// roundTrip sends a request and returns the raw result of its response.
func (c *Conn) roundTrip(ctx context.Context, method string, params any) (codec.Raw, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	raw, err := c.encodeParams(method, params)
	if err != nil {
		return nil, err
	}
	id := c.allocID()
	if err := c.send([]any{TypeRequest, id, method, raw}, method); err != nil {
		return nil, err
	}
	return c.await(ctx, id, method)
}

// encodeParams encodes the parameter array of method and applies the size
// bound.
func (c *Conn) encodeParams(method string, params any) (codec.Raw, error) {
	if params == nil {
		params = []any{}
	}
	b, err := Marshal(c.h, params)
	if err != nil {
		return nil, &ConnectionError{Op: "encode", Err: errors.Annotatef(err, "encoding %s params", method)}
	}
	if c.limit > 0 && len(b) > c.limit {
		return nil, errors.Annotatef(ErrMessageTooLarge, "%s params are %d bytes, limit %d", method, len(b), c.limit)
	}
	return codec.Raw(b), nil
}

// send encodes one frame and writes it with a single Write.
func (c *Conn) send(frame []any, method string) error {
	b, err := Marshal(c.h, frame)
	if err != nil {
		return &ConnectionError{Op: "encode", Err: errors.Annotatef(err, "encoding %s", method)}
	}
	if c.logging {
		c.logger.Debug("msgrpc: send", "type", frame[0], "method", method, "bytes", len(b))
	}
	n, err := c.w.Write(b)
	c.sent += int64(n)
	if err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	return nil
}

// await reads frames until the response for id arrives, serving everything
// else that the peer sends in the meantime. Handlers dispatched here may
// issue calls of their own; responses they read for an outer request are
// set aside for it.
func (c *Conn) await(ctx context.Context, id uint32, method string) (codec.Raw, error) {
	c.waiting[id] = true
	defer delete(c.waiting, id)
	for {
		if msg, ok := c.replies[id]; ok {
			delete(c.replies, id)
			return c.result(msg, method)
		}
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		if msg.kind != TypeResponse {
			if err := c.dispatch(ctx, msg); err != nil {
				return nil, err
			}
			continue
		}
		if msg.id != id {
			if c.waiting[msg.id] {
				c.replies[msg.id] = msg
				continue
			}
			c.logger.Warn("msgrpc: dropping response for unknown request", "id", msg.id, "want", id)
			continue
		}
		return c.result(msg, method)
	}
}

// result turns the response to method into its raw result or error.
func (c *Conn) result(msg *message, method string) (codec.Raw, error) {
	if !isNil(msg.err) {
		return nil, newResponseError(c.h, method, msg.err)
	}
	if c.limit > 0 && len(msg.result) > c.limit {
		return nil, errors.Annotatef(ErrMessageTooLarge, "%s reply is %d bytes, limit %d", method, len(msg.result), c.limit)
	}
	return msg.result, nil
}

func (c *Conn) readMessage() (*message, error) {
	if c.closed {
		return nil, ErrClosed
	}
	var parts []codec.Raw
	start := c.dec.NumBytesRead()
	if err := c.dec.Decode(&parts); err != nil {
		// The decoder reports a frame cut short as io.EOF too.
		if errors.Is(err, io.EOF) && c.dec.NumBytesRead() > start {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ConnectionError{Op: "read", Err: err}
	}
	msg, err := parseMessage(c.h, parts)
	if err != nil {
		return nil, &ConnectionError{Op: "decode", Err: err}
	}
	c.received += int64(msg.size())
	if c.logging {
		c.logger.Debug("msgrpc: recv", "type", msg.kind, "id", msg.id, "method", msg.method, "bytes", msg.size())
	}
	return msg, nil
}

// dispatch hands a request or notification to the handler. Handler panics
// are recovered; for requests they become an error response.
func (c *Conn) dispatch(ctx context.Context, msg *message) error {
	params := newReader(c.h, msg.params)
	switch msg.kind {
	case TypeNotification:
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					c.logger.Error("msgrpc: notification handler panic", "method", msg.method, "err", rv)
				}
			}()
			c.handler.ServeNotification(ctx, msg.method, params)
		}()
		return nil
	case TypeRequest:
		var result any
		var herr error
		func() {
			defer func() {
				if rv := recover(); rv != nil {
					c.logger.Error("msgrpc: request handler panic", "method", msg.method, "err", rv)
					herr = fmt.Errorf("%v", rv)
				}
			}()
			result, herr = c.handler.ServeRequest(ctx, msg.method, params)
		}()
		var errObj any
		if herr != nil {
			result = nil
			if p, ok := herr.(ResponsePayload); ok {
				errObj = p.ResponsePayload()
			} else {
				errObj = []any{0, herr.Error()}
			}
		}
		return c.send([]any{TypeResponse, msg.id, errObj, result}, msg.method)
	}
	return nil
}

// isTransportClosed reports errors that mean the peer went away normally.
func isTransportClosed(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, ErrClosed)
}
