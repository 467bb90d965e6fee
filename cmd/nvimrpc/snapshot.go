// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/snapshot"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var src apiSource
	cmd := &cobra.Command{
		Use:   "snapshot FILE",
		Short: "Save the peer's api-info as a compressed snapshot",
		Long: `Snapshot writes the peer's api-info to FILE as zstd-compressed msgpack.
Snapshots feed the check, info and gen commands without a running editor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.oneShot(cmd.Context())
			defer cancel()

			raw, origin, err := src.load(ctx, a, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := snapshot.WriteFile(args[0], raw); err != nil {
				return errors.Trace(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes of api-info from %s)\n", args[0], len(raw), origin)
			return nil
		},
	}
	cmd.Flags().StringVar(&src.apiInfo, "api-info", "", "read raw api-info msgpack (nvim --api-info), - for stdin")
	return cmd
}
