// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package nvimrpc

import (
	"context"
	"log/slog"
)

// RequestContext carries per-message information to Router handlers.
type RequestContext struct {
	// Ctx is the context of the Loop or call that read the message.
	Ctx context.Context
	// Method is the name the peer invoked.
	Method string
	// ChannelID is the channel id the peer assigned to this client.
	ChannelID int64
	logger    *slog.Logger
}

// Logger returns a logger annotated with the method and channel id.
func (rc *RequestContext) Logger() *slog.Logger {
	l := rc.logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("method", rc.Method, "channel", rc.ChannelID)
}
