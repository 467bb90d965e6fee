// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"errors"
	"fmt"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

var (
	// ErrNotFindApi reports that the peer's api-info has no function with
	// the requested method name.
	ErrNotFindApi = errors.New("nvimrpc: method not found in peer api-info")

	// ErrAPIDeprecated reports that the peer marks the method deprecated at
	// or below its current api level.
	ErrAPIDeprecated = errors.New("nvimrpc: method deprecated by peer")

	// ErrUnknownErrorKind is wrapped by an *RpcError whose kind id is absent
	// from the peer's error_types table, or whose payload is not a
	// [kind, message] pair.
	ErrUnknownErrorKind = errors.New("nvimrpc: unrecognised peer error kind")

	// ErrNotAutoCallable is returned by CallDynamic for catalog entries
	// whose result can only be read through CallWithReader.
	ErrNotAutoCallable = errors.New("nvimrpc: method is not auto-callable")

	// ErrArity is matched by every *ArityError.
	ErrArity = errors.New("nvimrpc: wrong number of arguments")

	// ErrForeignMethod reports a method reference that belongs to a
	// different catalog than the client's.
	ErrForeignMethod = errors.New("nvimrpc: method does not belong to the client catalog")
)

var (
	// ErrClosed is returned by operations on a closed client.
	ErrClosed = msgrpc.ErrClosed
	// ErrMessageTooLarge is returned when a parameter payload or a reply
	// exceeds Options.MaxMessageSize.
	ErrMessageTooLarge = msgrpc.ErrMessageTooLarge
)

// ConnectionError is a transport or correlation failure. It reaches callers
// unchanged from the engine.
type ConnectionError = msgrpc.ConnectionError

// ValidationError is returned when a method fails the pre-call check
// against the peer's api-info. It wraps ErrNotFindApi or ErrAPIDeprecated.
type ValidationError struct {
	Method          string
	APILevel        int64
	DeprecatedSince int64
	Err             error
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Err, ErrAPIDeprecated) {
		return fmt.Sprintf("%s: %s (deprecated since %d, api level %d)", e.Err, e.Method, e.DeprecatedSince, e.APILevel)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Method)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrRpc is a sentinel for use with errors.Is to check whether any error in a
// chain is an *RpcError.
var ErrRpc = &RpcError{}

// RpcError is an error reported by the peer in a response. Kind is the
// peer's error type id; Type is its name from the api-info error_types table
// ("Exception", "Validation"), empty when the id is not in that table.
type RpcError struct {
	Method  string
	Kind    int64
	Type    string
	Message string

	unrecognised bool
}

func (e *RpcError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: error kind %d: %s", e.Method, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Method, e.Type, e.Message)
}

// Is supports errors.Is by matching any *RpcError target.
func (e *RpcError) Is(target error) bool {
	_, ok := target.(*RpcError)
	return ok
}

// Unwrap exposes ErrUnknownErrorKind for errors the peer's table does not
// describe.
func (e *RpcError) Unwrap() error {
	if e.unrecognised {
		return ErrUnknownErrorKind
	}
	return nil
}

// ArityError reports an argument count that does not match the method's
// parameter shape.
type ArityError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArityError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s: want %d, got %d", ErrArity, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: %s: want %d, got %d", ErrArity, e.Method, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error {
	return ErrArity
}

// rpcError converts a peer response error using the error_types table of
// info. Any other error is returned unchanged.
func rpcError(info *ApiInfo, err error) error {
	var rerr *msgrpc.ResponseError
	if !errors.As(err, &rerr) {
		return err
	}
	code, msg, ok := rerr.Parts()
	if !ok {
		return &RpcError{Method: rerr.Method, Kind: -1, Message: msg, unrecognised: true}
	}
	out := &RpcError{Method: rerr.Method, Kind: code, Message: msg}
	if name, found := info.ErrorKindName(code); found {
		out.Type = name
	} else {
		out.unrecognised = true
	}
	return out
}
