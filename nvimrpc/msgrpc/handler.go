// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package msgrpc

import "context"

// Handler receives peer-initiated traffic. A Conn dispatches to it while a
// call is waiting for its reply and from Loop.
type Handler interface {
	// ServeRequest answers a request. The returned error is sent back to the
	// peer as the response error object.
	ServeRequest(ctx context.Context, method string, params *Reader) (any, error)
	// ServeNotification handles a notification. Nothing is sent back.
	ServeNotification(ctx context.Context, method string, params *Reader)
}

// noHandler rejects every request and ignores notifications.
type noHandler struct{}

func (noHandler) ServeRequest(_ context.Context, method string, _ *Reader) (any, error) {
	return nil, &methodNotFound{method: method}
}

func (noHandler) ServeNotification(context.Context, string, *Reader) {}

type methodNotFound struct {
	method string
}

func (e *methodNotFound) Error() string {
	return "no handler for method '" + e.method + "'"
}
