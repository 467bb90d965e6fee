// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package msgrpc

import (
	"reflect"

	"github.com/juju/errors"
	"github.com/ugorji/go/codec"
)

// msgpack-rpc message type tags.
const (
	TypeRequest      = 0
	TypeResponse     = 1
	TypeNotification = 2
)

// nilRaw is the msgpack encoding of nil.
var nilRaw = codec.Raw{0xc0}

// NewHandle returns a msgpack handle configured for Neovim's dialect: str
// values decode to Go strings, integers decode to int64 when the target is an
// interface, maps decode to map[string]any, ext types are
// written with the new spec, and codec.Raw values are embedded verbatim.
func NewHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.RawToString = true
	h.SignedInteger = true
	h.WriteExt = true
	h.Raw = true
	h.MapType = reflect.TypeOf(map[string]any(nil))
	return h
}

// Marshal encodes v with h.
func Marshal(h *codec.MsgpackHandle, v any) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, h).Encode(v); err != nil {
		return nil, errors.Trace(err)
	}
	return b, nil
}

// Unmarshal decodes one msgpack value from b into v.
func Unmarshal(h *codec.MsgpackHandle, b []byte, v any) error {
	return errors.Trace(codec.NewDecoderBytes(b, h).Decode(v))
}

func isNil(raw codec.Raw) bool {
	return len(raw) == 0 || (len(raw) == 1 && raw[0] == nilRaw[0])
}

// message is one decoded msgpack-rpc frame. Params, Error and Result stay
// undecoded until a consumer asks for them.
type message struct {
	kind   int
	id     uint32
	method string
	params codec.Raw
	err    codec.Raw
	result codec.Raw
}

func (m *message) size() int {
	return len(m.params) + len(m.err) + len(m.result)
}

// parseMessage splits a frame into its positional parts.
func parseMessage(h *codec.MsgpackHandle, parts []codec.Raw) (*message, error) {
	if len(parts) < 3 {
		return nil, errors.NotValidf("message with %d elements", len(parts))
	}
	m := &message{}
	if err := Unmarshal(h, parts[0], &m.kind); err != nil {
		return nil, errors.Annotate(err, "message type")
	}
	switch m.kind {
	case TypeRequest:
		if len(parts) != 4 {
			return nil, errors.NotValidf("request with %d elements", len(parts))
		}
		if err := Unmarshal(h, parts[1], &m.id); err != nil {
			return nil, errors.Annotate(err, "request id")
		}
		if err := Unmarshal(h, parts[2], &m.method); err != nil {
			return nil, errors.Annotate(err, "request method")
		}
		m.params = parts[3]
	case TypeResponse:
		if len(parts) != 4 {
			return nil, errors.NotValidf("response with %d elements", len(parts))
		}
		if err := Unmarshal(h, parts[1], &m.id); err != nil {
			return nil, errors.Annotate(err, "response id")
		}
		m.err = parts[2]
		m.result = parts[3]
	case TypeNotification:
		if len(parts) != 3 {
			return nil, errors.NotValidf("notification with %d elements", len(parts))
		}
		if err := Unmarshal(h, parts[1], &m.method); err != nil {
			return nil, errors.Annotate(err, "notification method")
		}
		m.params = parts[2]
	default:
		return nil, errors.NotValidf("message type %d", m.kind)
	}
	return m, nil
}
