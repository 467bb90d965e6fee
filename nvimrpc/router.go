// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// handlerKind identifies how a registered handler is dispatched.
type handlerKind int

const (
	handlerRequest handlerKind = iota
	handlerNotification
)

// handlerInfo stores the registration details for one peer-initiated method.
type handlerInfo struct {
	Name       string
	Kind       handlerKind
	ParamsType reflect.Type // nil for raw handlers
	serve      func(ctx context.Context, rc *RequestContext, params *RawReader) (any, error)
}

// Router dispatches requests and notifications sent by the peer, such as
// those issued with rpcrequest() and rpcnotify(), to registered handlers.
// A Router serves a single client.
type Router struct {
	handlers  map[string]*handlerInfo
	logger    *slog.Logger
	channelID int64
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]*handlerInfo)}
}

// SetLogger sets the logger used for dropped messages. Open defaults it to
// the client's logger.
func (r *Router) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

func (r *Router) register(info *handlerInfo) {
	if info.Name == "" {
		panic("nvimrpc: registering handler with empty method name")
	}
	if _, dup := r.handlers[info.Name]; dup {
		panic(fmt.Sprintf("nvimrpc: registering %q: duplicate handler", info.Name))
	}
	r.handlers[info.Name] = info
}

// HandleRequest registers a typed handler for peer requests named name.
func HandleRequest[P Tuple, R any](r *Router, name string, fn func(context.Context, *RequestContext, P) (R, error)) {
	r.register(&handlerInfo{
		Name:       name,
		Kind:       handlerRequest,
		ParamsType: reflect.TypeFor[P](),
		serve: func(ctx context.Context, rc *RequestContext, params *RawReader) (any, error) {
			p, err := decodeTuple[P](params.Handle(), params.Bytes())
			if err != nil {
				return nil, &HandlerError{Type: "TypeError", Message: fmt.Sprintf("parameter deserialization: %v", err)}
			}
			return fn(ctx, rc, p)
		},
	})
}

// HandleNotification registers a typed handler for peer notifications
// named name.
func HandleNotification[P Tuple](r *Router, name string, fn func(context.Context, *RequestContext, P)) {
	r.register(&handlerInfo{
		Name:       name,
		Kind:       handlerNotification,
		ParamsType: reflect.TypeFor[P](),
		serve: func(ctx context.Context, rc *RequestContext, params *RawReader) (any, error) {
			p, err := decodeTuple[P](params.Handle(), params.Bytes())
			if err != nil {
				return nil, err
			}
			fn(ctx, rc, p)
			return nil, nil
		},
	})
}

// HandleRawNotification registers a handler that receives the notification
// params undecoded. Use it for variadic payloads such as "redraw".
func HandleRawNotification(r *Router, name string, fn func(context.Context, *RequestContext, *RawReader)) {
	r.register(&handlerInfo{
		Name: name,
		Kind: handlerNotification,
		serve: func(ctx context.Context, rc *RequestContext, params *RawReader) (any, error) {
			fn(ctx, rc, params)
			return nil, nil
		},
	})
}

// Methods returns the names of every registered handler, sorted.
func (r *Router) Methods() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServeRequest implements msgrpc.Handler.
func (r *Router) ServeRequest(ctx context.Context, method string, params *RawReader) (any, error) {
	h, ok := r.handlers[method]
	if !ok || h.Kind != handlerRequest {
		return nil, &HandlerError{
			Type:    "AttributeError",
			Message: fmt.Sprintf("Unknown method: '%s'. Available methods: [%s]", method, strings.Join(r.requestMethods(), ", ")),
		}
	}
	return h.serve(ctx, r.requestContext(ctx, method), params)
}

// ServeNotification implements msgrpc.Handler.
func (r *Router) ServeNotification(ctx context.Context, method string, params *RawReader) {
	h, ok := r.handlers[method]
	if !ok || h.Kind != handlerNotification {
		r.log().Debug("nvimrpc: dropping notification", "method", method)
		return
	}
	if _, err := h.serve(ctx, r.requestContext(ctx, method), params); err != nil {
		r.log().Warn("nvimrpc: notification params", "method", method, "err", err)
	}
}

func (r *Router) requestMethods() []string {
	var names []string
	for _, name := range r.Methods() {
		if r.handlers[name].Kind == handlerRequest {
			names = append(names, name)
		}
	}
	return names
}

func (r *Router) requestContext(ctx context.Context, method string) *RequestContext {
	return &RequestContext{Ctx: ctx, Method: method, ChannelID: r.channelID, logger: r.log()}
}

func (r *Router) log() *slog.Logger {
	if r.logger == nil {
		return slog.Default()
	}
	return r.logger
}

// HandlerError is returned by handlers to control the error object sent
// back to the peer. The peer receives [0, "Type: Message"].
type HandlerError struct {
	Type    string
	Message string
}

func (e *HandlerError) Error() string {
	if e.Type == "" {
		return e.Message
	}
	return e.Type + ": " + e.Message
}

// ResponsePayload implements msgrpc.ResponsePayload.
func (e *HandlerError) ResponsePayload() any {
	return []any{0, e.Error()}
}

var _ msgrpc.Handler = (*Router)(nil)
