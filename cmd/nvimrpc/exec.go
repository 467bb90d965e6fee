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

func newExecCmd(a *app) *cobra.Command {
	var evals []string
	cmd := &cobra.Command{
		Use:   "exec [COMMAND]...",
		Short: "Run Ex commands and evaluate expressions",
		Long: `Exec runs each COMMAND with nvim_command, in order, then evaluates each
--eval expression with nvim_eval and prints its value on its own line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(evals) == 0 {
				return errors.BadRequestf("nothing to run")
			}
			ctx, cancel := a.oneShot(cmd.Context())
			defer cancel()

			s, err := a.open(ctx, nil)
			if err != nil {
				return err
			}
			defer s.close(ctx, a.logger)

			for _, line := range args {
				if _, err := nvimrpc.Call(ctx, s.client, nvimapi.Command, nvimrpc.T1(line)); err != nil {
					return errors.Annotatef(err, "command %q", line)
				}
			}
			out := cmd.OutOrStdout()
			for _, expr := range evals {
				r, err := nvimrpc.CallWithReader(ctx, s.client, nvimapi.Eval, nvimrpc.T1(expr))
				if err != nil {
					return errors.Annotatef(err, "eval %q", expr)
				}
				var v any
				if err := r.Decode(&v); err != nil {
					return errors.Annotatef(err, "decoding %q", expr)
				}
				fmt.Fprintln(out, formatValue(v))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&evals, "eval", "e", nil, "expression to evaluate (repeatable)")
	return cmd
}

// formatValue prints v the way Vim's :echo would for plain values.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "v:null"
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
