// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

func newInfoCmd(a *app) *cobra.Command {
	var (
		src       apiSource
		functions bool
		arrowOut  string
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the peer's version and api summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.oneShot(cmd.Context())
			defer cancel()

			var (
				info    *nvimrpc.ApiInfo
				channel int64 = -1
			)
			if src.offline() {
				raw, _, err := src.load(ctx, a, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if info, err = nvimrpc.DecodeApiInfo(nil, raw); err != nil {
					return errors.Trace(err)
				}
				defer info.Release()
			} else {
				s, err := a.open(ctx, nil)
				if err != nil {
					return err
				}
				defer s.close(ctx, a.logger)
				info, channel = s.client.ApiInfo(), s.client.ChannelID()
			}

			writeInfo(cmd.OutOrStdout(), info, channel, functions)
			if arrowOut != "" {
				return writeArrow(info, arrowOut)
			}
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().BoolVar(&functions, "functions", false, "list every function")
	cmd.Flags().StringVar(&arrowOut, "arrow", "", "write the functions table as an Arrow IPC stream to `FILE`")
	return cmd
}

func writeInfo(w io.Writer, info *nvimrpc.ApiInfo, channel int64, functions bool) {
	v := info.Version()
	fmt.Fprintf(w, "nvim %s (api level %d, compatible %d)\n", v, v.APILevel, v.APICompatible)
	if channel >= 0 {
		fmt.Fprintf(w, "channel %d\n", channel)
	}
	fmt.Fprintf(w, "functions %d, ui events %d, ui options %d\n",
		info.NumFunctions(), info.NumEvents(), len(info.UIOptions()))
	if !functions {
		return
	}
	for _, fn := range info.Functions() {
		params := make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			params[i] = p.Name + " " + p.Type
		}
		fmt.Fprintf(w, "  %s(%s) %s", fn.Name, strings.Join(params, ", "), fn.ReturnType)
		if fn.DeprecatedSince != nil {
			fmt.Fprintf(w, " [deprecated since %d]", *fn.DeprecatedSince)
		}
		fmt.Fprintln(w)
	}
}

func writeArrow(info *nvimrpc.ApiInfo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := info.WriteIPC(f); err != nil {
		f.Close()
		return errors.Annotatef(err, "writing %s", path)
	}
	return errors.Trace(f.Close())
}
