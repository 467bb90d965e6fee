// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package msgrpc

import (
	"bytes"
	"context"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
)

// Reader exposes one undecoded msgpack value: a reply payload or the params
// of a peer-initiated message. Decode and Read are independent views over the
// same bytes.
type Reader struct {
	*bytes.Reader
	h   *codec.MsgpackHandle
	raw codec.Raw
}

func newReader(h *codec.MsgpackHandle, raw codec.Raw) *Reader {
	return &Reader{Reader: bytes.NewReader(raw), h: h, raw: raw}
}

// NewReader returns a Reader over an encoded value.
func NewReader(h *codec.MsgpackHandle, raw []byte) *Reader {
	return newReader(h, codec.Raw(raw))
}

// Decode decodes the whole value into v.
func (r *Reader) Decode(v any) error {
	return Unmarshal(r.h, r.raw, v)
}

// Handle returns the msgpack handle the value was read with.
func (r *Reader) Handle() *codec.MsgpackHandle {
	return r.h
}

// Bytes returns the encoded value. The slice must not be modified.
func (r *Reader) Bytes() []byte {
	return r.raw
}

// Writer collects the encoded parameter array of a request started with
// CallWithWriter. Nothing reaches the transport until the request is
// completed with GetResultWithWriter or GetReaderWithWriter.
type Writer struct {
	id     uint32
	method string
	h      *codec.MsgpackHandle
	buf    bytes.Buffer
	limit  int
	done   bool
}

// Method returns the remote method the writer was opened for.
func (w *Writer) Method() string {
	return w.method
}

// Write appends pre-encoded msgpack bytes.
func (w *Writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrWriterDone
	}
	if w.limit > 0 && w.buf.Len()+len(p) > w.limit {
		return 0, errors.Annotatef(ErrMessageTooLarge, "%s params exceed %d bytes", w.method, w.limit)
	}
	return w.buf.Write(p)
}

// Encode appends the msgpack encoding of v.
func (w *Writer) Encode(v any) error {
	b, err := Marshal(w.h, v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Len returns the number of payload bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) params() any {
	if w.buf.Len() == 0 {
		return []any{}
	}
	return codec.Raw(w.buf.Bytes())
}

// CallWithReader sends a request and returns its reply undecoded.
func (c *Conn) CallWithReader(ctx context.Context, method string, params any) (*Reader, error) {
	raw, err := c.roundTrip(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return newReader(c.h, raw), nil
}

// CallWithWriter reserves a request id for method and returns a Writer for
// its parameter payload.
func (c *Conn) CallWithWriter(ctx context.Context, method string) (*Writer, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	return &Writer{id: c.allocID(), method: method, h: c.h, limit: c.limit}, nil
}

// GetResultWithWriter sends the request collected in w and decodes the
// reply into result.
func (c *Conn) GetResultWithWriter(ctx context.Context, w *Writer, result any) error {
	raw, err := c.flushWriter(ctx, w)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := Unmarshal(c.h, raw, result); err != nil {
		return errors.Annotatef(err, "decoding %s result", w.method)
	}
	return nil
}

// GetReaderWithWriter sends the request collected in w and returns the reply
// undecoded.
func (c *Conn) GetReaderWithWriter(ctx context.Context, w *Writer) (*Reader, error) {
	raw, err := c.flushWriter(ctx, w)
	if err != nil {
		return nil, err
	}
	return newReader(c.h, raw), nil
}

func (c *Conn) flushWriter(ctx context.Context, w *Writer) (codec.Raw, error) {
	if w.done {
		return nil, ErrWriterDone
	}
	if err := c.ready(ctx); err != nil {
		return nil, err
	}
	w.done = true
	if err := c.send([]any{TypeRequest, w.id, w.method, w.params()}, w.method); err != nil {
		return nil, err
	}
	return c.await(ctx, w.id, w.method)
}
