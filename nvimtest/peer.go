// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimrpc/msgrpc"
)

// Func handles one method call. args are the decoded positional params.
type Func func(ctx context.Context, p *Peer, args []any) (any, error)

// Error is returned by a Func to send a Neovim-shaped error object
// [Kind, Message] to the client.
type Error struct {
	Kind    int64
	Message string
}

func (e *Error) Error() string { return e.Message }

// ResponsePayload implements msgrpc.ResponsePayload.
func (e *Error) ResponsePayload() any { return []any{e.Kind, e.Message} }

// Exception builds an error of Neovim's Exception kind.
func Exception(format string, args ...any) error {
	return &Error{Kind: 0, Message: fmt.Sprintf(format, args...)}
}

// Validation builds an error of Neovim's Validation kind.
func Validation(format string, args ...any) error {
	return &Error{Kind: 1, Message: fmt.Sprintf(format, args...)}
}

// Message is a request or notification received by the peer.
type Message struct {
	Notification bool
	Method       string
	Args         []any
}

// Peer is a fake Neovim endpoint.
type Peer struct {
	info   Info
	logger *slog.Logger

	mu       sync.Mutex
	funcs    map[string]Func
	received []Message
	conn     *msgrpc.Conn
}

// NewPeer creates a peer publishing info.
func NewPeer(info Info) *Peer {
	return &Peer{info: info, funcs: make(map[string]Func), logger: slog.Default()}
}

// SetLogger sets the logger used by the peer's connection.
func (p *Peer) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// Info returns the metadata the peer publishes.
func (p *Peer) Info() Info { return p.info }

// Handle registers fn for method, replacing any previous handler. A handler
// for nvim_get_api_info replaces the built-in handshake reply.
func (p *Peer) Handle(method string, fn Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.funcs[method] = fn
}

// Received returns the messages the peer has seen, excluding the
// handshake.
func (p *Peer) Received() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.received...)
}

// Serve answers messages read from r until the client disconnects.
func (p *Peer) Serve(ctx context.Context, w io.Writer, r io.Reader) error {
	conn := msgrpc.NewConn(w, r, msgrpc.Options{
		Handle:  nvimrpc.NewHandle(),
		Handler: p,
		Logger:  p.logger,
	})
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	return conn.Loop(ctx)
}

// Start serves the peer on one end of an in-memory pipe and returns the
// other end. wait closes the peer's end once the client has gone and
// returns the result of Serve.
func (p *Peer) Start(ctx context.Context) (client net.Conn, wait func() error) {
	client, server := net.Pipe()
	done := make(chan error, 1)
	go func() {
		err := p.Serve(ctx, server, server)
		server.Close()
		done <- err
	}()
	return client, func() error { return <-done }
}

// Notify sends a notification to the client. It must be called from inside
// a Func.
func (p *Peer) Notify(ctx context.Context, method string, args ...any) error {
	if args == nil {
		args = []any{}
	}
	return p.current().Notify(ctx, method, args)
}

// Request sends a request to the client and waits for the reply, serving
// the client's own traffic in the meantime. It must be called from inside a
// Func.
func (p *Peer) Request(ctx context.Context, method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	var result any
	err := p.current().Call(ctx, method, args, &result)
	return result, err
}

// Hangup closes the peer's side of the connection. The client sees end of
// stream; Serve returns nil.
func (p *Peer) Hangup() error {
	return p.current().Close()
}

func (p *Peer) current() *msgrpc.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn
}

// ServeRequest implements msgrpc.Handler.
func (p *Peer) ServeRequest(ctx context.Context, method string, params *msgrpc.Reader) (any, error) {
	if method == nvimrpc.HandshakeMethod {
		p.mu.Lock()
		fn, ok := p.funcs[method]
		p.mu.Unlock()
		if ok {
			return fn(ctx, p, nil)
		}
		return []any{p.info.ChannelID, p.info.Encode()}, nil
	}
	args, err := decodeArgs(params)
	if err != nil {
		return nil, Validation("%v", err)
	}
	p.mu.Lock()
	p.received = append(p.received, Message{Method: method, Args: args})
	fn, ok := p.funcs[method]
	p.mu.Unlock()
	if !ok {
		return nil, Exception("Invalid method: %s", method)
	}
	return fn(ctx, p, args)
}

// ServeNotification implements msgrpc.Handler.
func (p *Peer) ServeNotification(ctx context.Context, method string, params *msgrpc.Reader) {
	args, err := decodeArgs(params)
	if err != nil {
		p.logger.Warn("nvimtest: undecodable notification", "method", method, "err", err)
		return
	}
	p.mu.Lock()
	p.received = append(p.received, Message{Notification: true, Method: method, Args: args})
	fn, ok := p.funcs[method]
	p.mu.Unlock()
	if ok {
		if _, err := fn(ctx, p, args); err != nil {
			p.logger.Warn("nvimtest: notification handler", "method", method, "err", err)
		}
	}
}

// Methods returns the names of the registered handlers, sorted.
func (p *Peer) Methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.funcs))
	for name := range p.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodeArgs(params *msgrpc.Reader) ([]any, error) {
	var args []any
	if err := params.Decode(&args); err != nil {
		return nil, fmt.Errorf("params must be an array: %s", strings.TrimSpace(err.Error()))
	}
	return args, nil
}
