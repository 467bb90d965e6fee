// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Command nvimrpc talks to a running or embedded Neovim over msgpack-rpc.
//
//	nvimrpc info                      # peer version and api summary
//	nvimrpc check --snapshot api.snap # catalog compatibility report
//	nvimrpc exec 'echo "hi"'          # run Ex commands
//	nvimrpc listen my_event           # print subscribed notifications
//	nvimrpc snapshot api.snap         # save the peer's api-info
//	nvimrpc gen -o api.go             # generate a typed catalog
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

// app holds state shared by the subcommands.
type app struct {
	cfg    config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer

	configPath string
	flags      config
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	var logLevel string

	root := &cobra.Command{
		Use:          "nvimrpc",
		Short:        "Typed msgpack-rpc client for Neovim",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, logLevel)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/nvimrpc/config.toml)")
	pf.StringVarP(&a.flags.Address, "address", "a", "", "nvim listen address: socket path or host:port (default $NVIM)")
	pf.StringVar(&a.flags.Embed, "embed", "", "nvim binary to embed when no address is set")
	pf.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.BoolVar(&a.flags.LogTraffic, "log-traffic", false, "log every msgpack-rpc frame at debug level")
	pf.BoolVar(&a.flags.SkipValidation, "skip-validation", false, "do not check methods against the peer's api-info")
	pf.IntVar(&a.flags.MaxMessageSize, "max-message-size", 0, "bound on parameter and reply sizes in bytes")
	pf.DurationVar(&a.flags.Timeout, "timeout", 0, "timeout for one-shot commands")
	pf.BoolVar(&a.flags.Trace, "trace", false, "export call spans and metrics to stderr")

	root.AddCommand(
		newInfoCmd(a),
		newCheckCmd(a),
		newExecCmd(a),
		newListenCmd(a),
		newSnapshotCmd(a),
		newGenCmd(a),
	)
	return root
}

// setup resolves the configuration: defaults, then the config file, then
// the environment, then flags given on the command line.
func (a *app) setup(cmd *cobra.Command, logLevel string) error {
	path := a.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.Address = a.flags.Address
	}
	if flags.Changed("embed") {
		cfg.Embed = a.flags.Embed
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = nvimrpc.ParseLogLevel(logLevel); err != nil {
			return err
		}
	}
	if flags.Changed("log-traffic") {
		cfg.LogTraffic = a.flags.LogTraffic
	}
	if flags.Changed("skip-validation") {
		cfg.SkipValidation = a.flags.SkipValidation
	}
	if flags.Changed("max-message-size") {
		cfg.MaxMessageSize = a.flags.MaxMessageSize
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.flags.Timeout
	}
	if flags.Changed("trace") {
		cfg.Trace = a.flags.Trace
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return nil
}

// oneShot returns a context bounded by the configured timeout.
func (a *app) oneShot(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

