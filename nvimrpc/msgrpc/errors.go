// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package msgrpc

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
)

var (
	// ErrClosed is returned by every operation on a Conn after Close.
	ErrClosed = errors.New("msgrpc: connection closed")
	// ErrMessageTooLarge is returned when an outgoing payload or an incoming
	// reply exceeds the connection's MaxMessageSize.
	ErrMessageTooLarge = errors.New("msgrpc: message too large")
	// ErrWriterDone is returned when a Writer is completed twice.
	ErrWriterDone = errors.New("msgrpc: writer already completed")
)

// ConnectionError reports a failure of the transport or of msgpack-rpc
// framing. It is returned unchanged to callers of the client facade.
type ConnectionError struct {
	Op  string // "read", "write", "decode", "encode"
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("msgrpc: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ResponseError carries the undecoded error object of a msgpack-rpc response.
// Neovim encodes it as [error_type_id, message].
type ResponseError struct {
	Method string
	Raw    codec.Raw

	code    int64
	message string
	parsed  bool
}

func newResponseError(h *codec.MsgpackHandle, method string, raw codec.Raw) *ResponseError {
	e := &ResponseError{Method: method, Raw: raw}
	var parts []any
	if err := codec.NewDecoderBytes(raw, h).Decode(&parts); err == nil && len(parts) == 2 {
		code, okCode := toInt64(parts[0])
		msg, okMsg := parts[1].(string)
		if okCode && okMsg {
			e.code, e.message, e.parsed = code, msg, true
		}
	}
	if !e.parsed {
		var v any
		if err := codec.NewDecoderBytes(raw, h).Decode(&v); err == nil {
			e.message = fmt.Sprint(v)
		}
	}
	return e
}

// Parts returns the error type id and message of a Neovim-shaped error
// object. ok is false when the peer sent some other shape.
func (e *ResponseError) Parts() (code int64, message string, ok bool) {
	return e.code, e.message, e.parsed
}

func (e *ResponseError) Error() string {
	if e.parsed {
		return fmt.Sprintf("msgrpc: %s: error %d: %s", e.Method, e.code, e.message)
	}
	return fmt.Sprintf("msgrpc: %s: %s", e.Method, e.message)
}

// ResponsePayload lets request handlers control the error object written
// back to the peer.
type ResponsePayload interface {
	ResponsePayload() any
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}
