// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/nvimapi"
	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

func newListenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen EVENT...",
		Short: "Subscribe to events and print notifications until the peer exits",
		Long: `Listen subscribes to each EVENT with nvim_subscribe and prints every
notification the peer sends for it, one per line, until the peer closes the
connection or the process is interrupted. Requests from the peer are
answered with an error.

From Neovim, send an event with:

	:call rpcnotify(0, "EVENT", arg...)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, events []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.listen(ctx, cmd.OutOrStdout(), events)
		},
	}
	return cmd
}

func (a *app) listen(ctx context.Context, out io.Writer, events []string) error {
	router := nvimrpc.NewRouter()
	for _, ev := range events {
		nvimrpc.HandleRawNotification(router, ev, func(_ context.Context, rc *nvimrpc.RequestContext, r *nvimrpc.RawReader) {
			var args []any
			if err := r.Decode(&args); err != nil {
				rc.Logger().Warn("undecodable notification", "err", err)
				return
			}
			fmt.Fprintf(out, "%s", rc.Method)
			for _, arg := range args {
				fmt.Fprintf(out, " %s", formatValue(arg))
			}
			fmt.Fprintln(out)
		})
	}

	openCtx, cancel := a.oneShot(ctx)
	s, err := a.open(openCtx, router)
	if err != nil {
		cancel()
		return err
	}
	defer s.close(ctx, a.logger)
	for _, ev := range events {
		if _, err := nvimrpc.Call(openCtx, s.client, nvimapi.Subscribe, nvimrpc.T1(ev)); err != nil {
			cancel()
			return errors.Annotatef(err, "subscribing to %s", ev)
		}
	}
	cancel()
	a.logger.Info("listening", "events", events, "channel", s.client.ChannelID())

	// Interrupts close the transport, which ends Loop.
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.transport.Close()
		case <-done:
		}
	}()

	err = s.client.Loop(ctx)
	close(done)
	<-stopped
	if ctx.Err() != nil {
		return nil
	}
	return errors.Trace(err)
}
