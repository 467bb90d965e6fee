// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/nvimapi"
	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		src      apiSource
		peerOnly bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the built-in catalog against the peer's api-info",
		Long: `Check runs the pre-call validation for every method of the built-in
catalog and reports methods the peer does not publish or has deprecated.
It exits non-zero when any method would fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.oneShot(cmd.Context())
			defer cancel()

			var rep nvimrpc.Report
			if src.offline() {
				raw, _, err := src.load(ctx, a, cmd.InOrStdin())
				if err != nil {
					return err
				}
				info, err := nvimrpc.DecodeApiInfo(nil, raw)
				if err != nil {
					return errors.Trace(err)
				}
				defer info.Release()
				rep = nvimrpc.Check(nvimapi.Catalog, info)
			} else {
				s, err := a.open(ctx, nil)
				if err != nil {
					return err
				}
				defer s.close(ctx, a.logger)
				rep = nvimrpc.Check(s.client.Catalog(), s.client.ApiInfo())
			}

			out := cmd.OutOrStdout()
			if _, err := rep.WriteTo(out); err != nil {
				return errors.Trace(err)
			}
			if peerOnly {
				for _, name := range rep.PeerOnly {
					fmt.Fprintf(out, "  peer-only   %s\n", name)
				}
			}
			if !rep.OK() {
				return errors.Errorf("%d missing and %d deprecated methods", len(rep.Missing), len(rep.Deprecated))
			}
			return nil
		},
	}
	src.addFlags(cmd)
	cmd.Flags().BoolVar(&peerOnly, "peer-only", false, "also list peer functions missing from the catalog")
	return cmd
}
