// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/Query-farm/nvim-rpc/gen"
	"github.com/Query-farm/nvim-rpc/nvimrpc"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		src        apiSource
		cfg        gen.Config
		output     string
		headerFile string
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a typed Go catalog from api-info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.oneShot(cmd.Context())
			defer cancel()

			raw, origin, err := src.load(ctx, a, cmd.InOrStdin())
			if err != nil {
				return err
			}
			info, err := nvimrpc.DecodeApiInfo(nil, raw)
			if err != nil {
				return errors.Trace(err)
			}
			defer info.Release()

			if headerFile != "" {
				header, err := os.ReadFile(headerFile)
				if err != nil {
					return errors.Trace(err)
				}
				cfg.Header = string(header)
			}
			cfg.Source = origin
			out, err := gen.Generate(info, cfg)
			if err != nil {
				return errors.Trace(err)
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return errors.Trace(err)
			}
			return errors.Trace(os.WriteFile(output, out, 0o644))
		},
	}
	src.addFlags(cmd)
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&cfg.Package, "package", "", "package name (default nvimapi)")
	f.StringVar(&cfg.CatalogVar, "catalog-var", "", "catalog variable name (default Catalog)")
	f.StringVar(&cfg.CatalogName, "catalog-name", "", "catalog name (default nvim)")
	f.StringSliceVar(&cfg.Include, "include", nil, "only generate functions matching these patterns")
	f.StringSliceVar(&cfg.Exclude, "exclude", nil, "leave out functions matching these patterns")
	f.BoolVar(&cfg.SkipDeprecated, "skip-deprecated", false, "leave out deprecated functions")
	f.StringVar(&headerFile, "header-file", "", "prepend the contents of `FILE`, e.g. a license comment")
	return cmd
}
