// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Command nvim-fake serves an in-memory editor that speaks Neovim's
// msgpack-rpc API, for trying nvimrpc without Neovim installed.
//
//	nvim-fake                   # serve one session on stdin/stdout
//	nvim-fake --unix PATH       # serve sessions on a unix socket
//	nvim-fake --tcp HOST:PORT   # serve sessions on TCP
//
// Sessions on a socket are served one at a time and share one editor.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
	"github.com/Query-farm/nvim-rpc/nvimtest"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	peer := nvimtest.NewPeer(nvimtest.DefaultInfo())
	peer.SetLogger(logger)
	nvimtest.RegisterEditor(peer, nvimtest.NewEditor())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if len(os.Args) > 2 && (os.Args[1] == "--unix" || os.Args[1] == "--tcp") {
		network, address := "unix", os.Args[2]
		if os.Args[1] == "--tcp" {
			network = "tcp"
		} else {
			os.Remove(address)
		}
		listener, err := net.Listen(network, address)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to listen on %s: %v\n", address, err)
			os.Exit(1)
		}
		fmt.Printf("LISTEN:%s\n", listener.Addr())
		os.Stdout.Sync()

		go func() {
			<-ctx.Done()
			listener.Close()
		}()

		for {
			conn, err := listener.Accept()
			if err != nil {
				break
			}
			if err := peer.Serve(ctx, conn, conn); err != nil {
				logger.Error("serve error", "err", err)
			}
			conn.Close()
		}
		if network == "unix" {
			os.Remove(address)
		}
		return
	}

	if err := peer.Serve(ctx, os.Stdout, os.Stdin); err != nil {
		logger.Error("serve error", "err", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	lvl, err := nvimrpc.ParseLogLevel(os.Getenv("NVIMRPC_LOG_LEVEL"))
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}
